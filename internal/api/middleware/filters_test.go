package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emicklei/go-restful/v3"
)

func TestRecoverPanic(t *testing.T) {
	container := restful.NewContainer()
	container.Filter(Logger)
	container.Filter(RecoverPanic)

	ws := new(restful.WebService)
	ws.Path("/boom").Produces(restful.MIME_JSON)
	ws.Route(ws.GET("").To(func(*restful.Request, *restful.Response) {
		panic("kaboom")
	}))
	container.Add(ws)

	rec := httptest.NewRecorder()
	container.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != http.StatusInternalServerError {
		t.Errorf("code = %d", errResp.Code)
	}
}
