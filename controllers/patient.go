package controllers

import (
	"errors"
	"io"
	"net/http"

	"VitalsHub/models"
	"VitalsHub/services"
	"VitalsHub/util"

	"github.com/gin-gonic/gin"
)

type PatientController struct {
	service *services.PatientService
}

func Patient(patients *gin.RouterGroup, service *services.PatientService) {
	ctrl := &PatientController{service: service}
	{
		patients.GET("", ctrl.FetchAllPatients)
		patients.GET("/:id", ctrl.FetchPatientById)
		patients.POST("", ctrl.CreatePatient)
		patients.DELETE("", ctrl.DeletePatient)
		patients.PATCH("", ctrl.UpdatePatient)
		patients.PATCH("/vitals", ctrl.UpdateVitals)
	}
}

func (ctrl *PatientController) FetchAllPatients(c *gin.Context) {
	patients, err := ctrl.service.ListPatients(c.Request.Context())
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, patients)
}

func (ctrl *PatientController) FetchPatientById(c *gin.Context) {
	patient, err := ctrl.service.GetPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

func (ctrl *PatientController) CreatePatient(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	patient, err := ctrl.service.CreatePatient(c.Request.Context(), data)
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusCreated, patient)
}

func (ctrl *PatientController) DeletePatient(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	msg, err := ctrl.service.DeletePatient(c.Request.Context(), util.ToString(data["id"]))
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(msg))
}

func (ctrl *PatientController) UpdatePatient(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	id := util.ToString(data["id"])
	delete(data, "id")
	patient, err := ctrl.service.UpdatePatientProfile(c.Request.Context(), id, data)
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

func (ctrl *PatientController) UpdateVitals(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	update := models.VitalsUpdate{
		Spo2:        models.ReadingFrom(data, "spo2"),
		HeartRate:   models.ReadingFrom(data, "heartRate"),
		Temperature: models.ReadingFrom(data, "temperature"),
	}
	msg, err := ctrl.service.PushVitals(c.Request.Context(), util.ToString(data["id"]), update)
	if err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(msg))
}

// bindBody decodes the JSON object body. An empty body is an empty object.
func bindBody(c *gin.Context) (map[string]interface{}, bool) {
	data := make(map[string]interface{})
	if err := c.ShouldBindJSON(&data); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, util.FailedResponse(util.ValidationError(util.INVALID_REQUEST_BODY+": "+err.Error())))
		return nil, false
	}
	if data == nil {
		data = make(map[string]interface{})
	}
	return data, true
}

func failed(c *gin.Context, err error) {
	c.JSON(util.StatusCode(err), util.FailedResponse(err))
}
