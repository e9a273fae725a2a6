package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestList_NilIsEmptyWithCount(t *testing.T) {
	rec := httptest.NewRecorder()
	var saved []string
	List(rec, saved, "successfully")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":200,"success":true,"message":"successfully","count":0,"data":[]}`, rec.Body.String())
}

func TestList_Count(t *testing.T) {
	rec := httptest.NewRecorder()
	List(rec, []string{"love", "faith"}, "successfully")

	assert.JSONEq(t, `{"status":200,"success":true,"message":"successfully","count":2,"data":["love","faith"]}`, rec.Body.String())
}

func TestSuccess_NoCount(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"id": "John 3:16-kjv"}, "successfully")

	assert.JSONEq(t, `{"status":200,"success":true,"message":"successfully","data":{"id":"John 3:16-kjv"}}`, rec.Body.String())
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "Invalid verse id", "bad escape")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":400,"success":false,"message":"Invalid verse id","errors":"bad escape"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
