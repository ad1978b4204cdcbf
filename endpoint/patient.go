package endpoint

import (
	"fmt"
	"strconv"

	"github.com/ariebrainware/patient-registry/middleware"
	"github.com/ariebrainware/patient-registry/registry"
	"github.com/ariebrainware/patient-registry/util"
	"github.com/gin-gonic/gin"
)

type AgeResponse struct {
	DateOfBirth string `json:"date_of_birth" example:"1990-05-20"`
	Age         int    `json:"age" example:"35"`
}

// ListPatients godoc
// @Summary      List patients
// @Description  Reload the signed-in user's patients, newest first, and clear the search
// @Tags         Patient
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=ViewResponse} "Patients retrieved"
// @Failure      401 {object} util.APIResponse{data=ViewResponse} "Not signed in"
// @Failure      500 {object} util.APIResponse{data=ViewResponse} "Store error"
// @Router       /patient [get]
func ListPatients(c *gin.Context) {
	ws, ok := getWorkspaceOrRespond(c)
	if !ok {
		return
	}
	view, err := ws.Load(middleware.ClientContext(c), middleware.GetSessionToken(c))
	respondView(c, "Patients retrieved", view, err)
}

// CreatePatient godoc
// @Summary      Register a patient
// @Description  Validate the form and store a patient owned by the signed-in user
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body registry.FormFields true "Patient form"
// @Success      200 {object} util.APIResponse{data=ViewResponse} "Patient saved"
// @Failure      400 {object} util.APIResponse{data=ViewResponse} "Invalid form"
// @Failure      401 {object} util.APIResponse{data=ViewResponse} "Not signed in"
// @Failure      409 {object} util.APIResponse{data=ViewResponse} "Previous submit still saving"
// @Failure      500 {object} util.APIResponse{data=ViewResponse} "Store error"
// @Router       /patient [post]
func CreatePatient(c *gin.Context) {
	var fields registry.FormFields
	if !bindJSONOrRespond(c, &fields, "Invalid request payload") {
		return
	}
	ws, ok := getWorkspaceOrRespond(c)
	if !ok {
		return
	}
	view, err := ws.Submit(middleware.ClientContext(c), middleware.GetSessionToken(c), fields)
	respondView(c, "Patient saved successfully!", view, err)
}

// SearchPatients godoc
// @Summary      Search loaded patients
// @Description  Case-insensitive match on name, ID card number or contact number over the loaded patients. An empty keyword shows all.
// @Tags         Patient
// @Produce      json
// @Security     SessionToken
// @Param        keyword query string false "Search term"
// @Success      200 {object} util.APIResponse{data=ViewResponse} "Search applied"
// @Router       /patient/search [get]
func SearchPatients(c *gin.Context) {
	ws, ok := getWorkspaceOrRespond(c)
	if !ok {
		return
	}
	view, err := ws.Search(middleware.ClientContext(c), middleware.GetSessionToken(c), c.Query("keyword"))
	respondView(c, "Search applied", view, err)
}

// DeletePatient godoc
// @Summary      Delete a patient
// @Description  Delete one of the signed-in user's patients. Requires confirm=true.
// @Tags         Patient
// @Produce      json
// @Security     SessionToken
// @Param        id path string true "Patient record ID"
// @Param        confirm query bool true "Confirmation"
// @Success      200 {object} util.APIResponse{data=ViewResponse} "Patient deleted"
// @Failure      400 {object} util.APIResponse{data=ViewResponse} "Not confirmed"
// @Failure      401 {object} util.APIResponse{data=ViewResponse} "Not signed in"
// @Failure      404 {object} util.APIResponse{data=ViewResponse} "Patient not found"
// @Failure      500 {object} util.APIResponse{data=ViewResponse} "Store error"
// @Router       /patient/{id} [delete]
func DeletePatient(c *gin.Context) {
	ws, ok := getWorkspaceOrRespond(c)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	confirm := func(string) bool { return confirmed }

	view, err := ws.Delete(middleware.ClientContext(c), middleware.GetSessionToken(c), c.Param("id"), confirm)
	respondView(c, "Patient record deleted successfully!", view, err)
}

// ClearPatientForm godoc
// @Summary      Clear the form
// @Description  Reset the patient form. Available signed in or out.
// @Tags         Patient
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=ViewResponse} "Form cleared"
// @Router       /patient/clear [post]
func ClearPatientForm(c *gin.Context) {
	ws, ok := getWorkspaceOrRespond(c)
	if !ok {
		return
	}
	view, err := ws.ClearForm(middleware.ClientContext(c), middleware.GetSessionToken(c))
	respondView(c, "Form cleared", view, err)
}

// GetPatientAge godoc
// @Summary      Age preview
// @Description  Age in whole years for a date of birth (YYYY-MM-DD)
// @Tags         Patient
// @Produce      json
// @Param        dob query string true "Date of birth"
// @Success      200 {object} util.APIResponse{data=AgeResponse} "Age computed"
// @Failure      400 {object} util.APIResponse "Invalid date of birth"
// @Router       /patient/age [get]
func GetPatientAge(c *gin.Context) {
	ws, ok := getWorkspaceOrRespond(c)
	if !ok {
		return
	}
	dob := c.Query("dob")
	age, ok := ws.Form.PreviewAge(dob)
	if !ok {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Date of Birth is invalid",
			Err: fmt.Errorf("cannot compute age for %q", dob),
		})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Age computed", Data: AgeResponse{DateOfBirth: dob, Age: age}})
}
