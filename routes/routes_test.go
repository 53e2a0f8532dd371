package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"VitalsHub/models"
	"VitalsHub/services"
	"VitalsHub/services/servicestest"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeMailer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeMailer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

type harness struct {
	router  *gin.Engine
	records *servicestest.PatientStore
	mr      *miniredis.Miniredis
	mailer  *fakeMailer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	records := servicestest.NewPatientStore()
	mailer := &fakeMailer{}
	r := gin.New()
	Routes(r, Services{
		Patients: services.NewPatientService(records, services.NewVitalsStore(client, "ids")),
		Alerts:   services.NewAlertService(mailer, "alerts@hospital.org"),
	})
	return &harness{router: r, records: records, mr: mr, mailer: mailer}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

const newPatient = `{"fullName":"A","age":30,"email":"a@b.co","mobile":"1","dob":"2000-01-01","gender":"F"}`

func TestWelcomeAndUnknownRoute(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	w = h.do(http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, w.Body.String())
}

func TestPatientLifecycle(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/patients", newPatient)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id := created["id"].(string)
	assert.Regexp(t, `^\d{5}$`, id)
	assert.Equal(t, "30", created["age"])
	assert.Equal(t, "0", created["heartRate"])
	assert.JSONEq(t, `{"spo2":"0","heartRate":"0","temperature":"0"}`, h.mr.HGet("ids", id))

	w = h.do(http.MethodGet, "/api/patients/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A", decode(t, w)["fullName"])

	w = h.do(http.MethodGet, "/api/patients", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0]["id"])

	w = h.do(http.MethodPatch, "/api/patients", `{"id":"`+id+`","fullName":"B","ward":"B2"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)
	assert.Equal(t, "B", updated["fullName"])
	assert.Equal(t, "B2", updated["ward"])
	assert.Equal(t, id, updated["id"])

	w = h.do(http.MethodPatch, "/api/patients/vitals", `{"id":"`+id+`","heartRate":88,"spo2":""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Real-time vitals updated successfully"}`, w.Body.String())
	assert.JSONEq(t, `{"spo2":"0","heartRate":"88","temperature":"0"}`, h.mr.HGet("ids", id))

	w = h.do(http.MethodDelete, "/api/patients", `{"id":"`+id+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Patient deleted successfully"}`, w.Body.String())
	assert.False(t, h.records.Has(id))
	assert.Empty(t, h.mr.HGet("ids", id))

	w = h.do(http.MethodGet, "/api/patients/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Patient not found"}`, w.Body.String())
}

func TestPushVitals_FalsyValuesKeepStoredReadings(t *testing.T) {
	h := newHarness(t)
	h.records.Put(models.Patient{ID: "12345", FullName: "A"})
	h.mr.HSet("ids", "12345", `{"spo2":"0","heartRate":"0","temperature":"0"}`)

	w := h.do(http.MethodPatch, "/api/patients/vitals", `{"id":"12345","heartRate":"88","spo2":"97","temperature":"37"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodPatch, "/api/patients/vitals", `{"id":"12345","heartRate":0,"spo2":false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"spo2":"97","heartRate":"88","temperature":"37"}`, h.mr.HGet("ids", "12345"))
}

func TestCreatePatient_Validation(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/patients", `{"fullName":"A","age":30,"email":"a@b.co","mobile":"1","dob":"2000-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"gender is required"}`, w.Body.String())

	w = h.do(http.MethodPost, "/api/patients", `{"fullName":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "Invalid request body")

	w = h.do(http.MethodPost, "/api/patients", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"fullName is required"}`, w.Body.String())
}

func TestDeletePatient_ProfileOnly(t *testing.T) {
	h := newHarness(t)
	h.records.Put(models.Patient{ID: "12345", FullName: "A"})

	w := h.do(http.MethodDelete, "/api/patients", `{"id":12345}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Patient deleted from document store only as no real-time data found"}`, w.Body.String())
	assert.False(t, h.records.Has("12345"))

	w = h.do(http.MethodDelete, "/api/patients", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Patient ID is required"}`, w.Body.String())
}

func TestUpdates_RequireLiveRecord(t *testing.T) {
	h := newHarness(t)
	h.records.Put(models.Patient{ID: "12345", FullName: "A"})

	w := h.do(http.MethodPatch, "/api/patients", `{"id":"12345","fullName":"B"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodPatch, "/api/patients/vitals", `{"id":"12345","spo2":95}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodPatch, "/api/patients/vitals", `{"spo2":95}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoreFailure_Returns500(t *testing.T) {
	h := newHarness(t)
	h.mr.SetError("ERR injected failure")

	w := h.do(http.MethodPost, "/api/patients", newPatient)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode(t, w)["error"], "injected failure")
}

func TestSendAlert(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/patients/alert", `{"to":"doc@ward.org","subject":"SpO2 low","text":"Patient 12345 at 88%"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Alert email sent successfully"}`, w.Body.String())
	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, []string{"doc@ward.org"}, h.mailer.sent[0].GetHeader("To"))

	w = h.do(http.MethodPost, "/api/patients/alert", `{"to":"doc@ward.org","subject":"SpO2 low"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing required fields"}`, w.Body.String())

	w = h.do(http.MethodPost, "/api/patients/alert", `{"to":"not-an-address","subject":"s","text":"t"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid email format"}`, w.Body.String())
	assert.Len(t, h.mailer.sent, 1)

	h.mailer.err = errors.New("535 authentication failed")
	w = h.do(http.MethodPost, "/api/patients/alert", `{"to":"doc@ward.org","subject":"s","text":"t"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to send email","details":"535 authentication failed"}`, w.Body.String())
}
