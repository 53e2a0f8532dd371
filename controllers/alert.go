package controllers

import (
	"net/http"

	"VitalsHub/models"
	"VitalsHub/services"
	"VitalsHub/util"

	"github.com/gin-gonic/gin"
)

type AlertController struct {
	service *services.AlertService
}

func Alert(patients *gin.RouterGroup, service *services.AlertService) {
	ctrl := &AlertController{service: service}
	patients.POST("/alert", ctrl.SendAlert)
}

func (ctrl *AlertController) SendAlert(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	alert := models.Alert{
		To:      stringField(data, "to"),
		Subject: stringField(data, "subject"),
		Text:    stringField(data, "text"),
		HTML:    stringField(data, "html"),
	}
	if err := ctrl.service.Send(c.Request.Context(), alert); err != nil {
		failed(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(util.ALERT_SENT))
}

func stringField(data map[string]interface{}, key string) string {
	if util.IsFalsy(data[key]) {
		return ""
	}
	return util.ToString(data[key])
}
