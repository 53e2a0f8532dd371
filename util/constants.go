package util

const (
	PatientCollection = "patients"
	VitalsKey         = "ids"
)

const (
	PATIENT_ID_REQUIRED      = "Patient ID is required"
	PATIENT_NOT_FOUND        = "Patient not found"
	PATIENT_DELETED          = "Patient deleted successfully"
	PATIENT_DELETED_DOC_ONLY = "Patient deleted from document store only as no real-time data found"
	VITALS_UPDATED           = "Real-time vitals updated successfully"
	MISSING_REQUIRED_FIELDS  = "Missing required fields"
	INVALID_EMAIL_FORMAT     = "Invalid email format"
	FAILED_TO_SEND_EMAIL     = "Failed to send email"
	ALERT_SENT               = "Alert email sent successfully"
	ROUTE_NOT_FOUND          = "Route not found"
	SOMETHING_WENT_WRONG     = "Something went wrong!"
	INVALID_REQUEST_BODY     = "Invalid request body"
)
