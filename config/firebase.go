package config

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// ConnectFirestore initializes a Firebase app and returns its Firestore client.
// A service account file is used when FIREBASE_SERVICE_ACCOUNT_PATH is set,
// otherwise application default credentials.
func ConnectFirestore(ctx context.Context) (*firestore.Client, error) {
	cfg := LoadConfig()

	var fbConfig *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	var opts []option.ClientOption
	if cfg.FirebaseCredential != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredential))
	} else {
		log.Println("FIREBASE_SERVICE_ACCOUNT_PATH not set, will use application default credentials")
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firestore client: %w", err)
	}

	log.Println("Firestore client initialized successfully")
	return client, nil
}
