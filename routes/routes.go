package routes

import (
	"net/http"

	"VitalsHub/controllers"
	"VitalsHub/services"
	"VitalsHub/util"

	"github.com/gin-gonic/gin"
)

const welcome = "<center><h1>Welcome To Vitals Management System backend!</h1></center>"

type Services struct {
	Patients *services.PatientService
	Alerts   *services.AlertService
}

func Routes(r *gin.Engine, svc Services) {
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(welcome))
	})

	patients := r.Group("/api/patients")
	controllers.Patient(patients, svc.Patients)
	controllers.Alert(patients, svc.Alerts)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": util.ROUTE_NOT_FOUND})
	})
}
