package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/austcse/carnival-backend/errors"
	"github.com/austcse/carnival-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupContactRouter(svc *MockContactService) http.Handler {
	h := NewContactHandler(svc)
	r := newTestRouter()
	r.POST("/api/contact", h.SubmitContact)
	r.GET("/api/contact/rules", h.GetRules)
	return r
}

func postContact(t *testing.T, router http.Handler, body string) (*httptest.ResponseRecorder, types.ContactResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:5555"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp types.ContactResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

const annLeeBody = `{"firstName":"Ann","lastName":"Lee","email":"ann@example.com","message":"Hello there, when does registration open?"}`

func TestSubmitContactSuccess(t *testing.T) {
	svc := new(MockContactService)
	svc.On("Admit", mock.Anything, "203.0.113.7").Return(nil).Once()
	svc.On("Deliver", mock.Anything, types.ContactRequest{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@example.com",
		Message:   "Hello there, when does registration open?",
	}, "203.0.113.7").Return(nil).Once()

	w, resp := postContact(t, setupContactRouter(svc), annLeeBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "Message sent successfully!", resp.Message)
	svc.AssertExpectations(t)
}

func TestSubmitContactValidationErrors(t *testing.T) {
	svc := new(MockContactService)
	svc.On("Admit", mock.Anything, mock.Anything).Return(nil).Once()
	svc.On("Deliver", mock.Anything, mock.Anything, mock.Anything).Return(apperrors.InvalidFields([]apperrors.FieldError{
		{Field: "firstName", Message: "First name must be at least 2 characters"},
		{Field: "email", Message: "Please provide a valid email address"},
		{Field: "message", Message: "Message must be between 10 and 1000 characters"},
	})).Once()

	w, resp := postContact(t, setupContactRouter(svc), `{"firstName":"A","lastName":"Lee","email":"bad","message":"short"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 3)
	assert.Equal(t, "firstName", resp.Errors[0].Field)
	assert.Equal(t, "email", resp.Errors[1].Field)
	assert.Equal(t, "message", resp.Errors[2].Field)
}

func TestSubmitContactRateLimited(t *testing.T) {
	svc := new(MockContactService)
	svc.On("Admit", mock.Anything, mock.Anything).
		Return(apperrors.RateLimitExceeded("Too many contact form submissions, please try again later.", 3599)).Once()

	w, resp := postContact(t, setupContactRouter(svc), annLeeBody)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, 3599, resp.RetryAfter)
	assert.Equal(t, "3599", w.Header().Get("Retry-After"))
	svc.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitContactRateLimitedBeforeDecoding(t *testing.T) {
	svc := new(MockContactService)
	svc.On("Admit", mock.Anything, "203.0.113.7").
		Return(apperrors.RateLimitExceeded("Too many contact form submissions, please try again later.", 60)).Once()

	w, resp := postContact(t, setupContactRouter(svc), `{"firstName": 42`)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 60, resp.RetryAfter)
	svc.AssertNotCalled(t, "Reject", mock.Anything)
}

func TestSubmitContactDeliveryFailure(t *testing.T) {
	svc := new(MockContactService)
	svc.On("Admit", mock.Anything, mock.Anything).Return(nil).Once()
	svc.On("Deliver", mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.DeliveryFailed(stderrors.New("dial tcp: i/o timeout"))).Once()

	w, resp := postContact(t, setupContactRouter(svc), annLeeBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Failed to send message. Please try again later.", resp.Message)
	assert.NotContains(t, w.Body.String(), "i/o timeout")
}

func TestSubmitContactUndecodableBody(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected apperrors.FieldError
	}{
		{
			name:     "truncated json",
			body:     `{"firstName": "Ann"`,
			expected: apperrors.FieldError{Field: "body", Message: "Request body must be a JSON object"},
		},
		{
			name:     "array body",
			body:     `["Ann"]`,
			expected: apperrors.FieldError{Field: "body", Message: "Request body must be a JSON object"},
		},
		{
			name:     "number for phone",
			body:     `{"firstName":"Ann","lastName":"Lee","email":"ann@example.com","phone":8801911111111,"message":"Hello there"}`,
			expected: apperrors.FieldError{Field: "phone", Message: "phone must be a string"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockContactService)
			svc.On("Admit", mock.Anything, "203.0.113.7").Return(nil).Once()
			svc.On("Reject", []apperrors.FieldError{tc.expected}).
				Return(apperrors.InvalidFields([]apperrors.FieldError{tc.expected})).Once()

			w, resp := postContact(t, setupContactRouter(svc), tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, resp.Success)
			assert.Equal(t, []apperrors.FieldError{tc.expected}, resp.Errors)
			svc.AssertExpectations(t)
			svc.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitContactEmptyBodyIsValidated(t *testing.T) {
	svc := new(MockContactService)
	svc.On("Admit", mock.Anything, mock.Anything).Return(nil).Once()
	svc.On("Deliver", mock.Anything, types.ContactRequest{}, "203.0.113.7").
		Return(apperrors.InvalidFields([]apperrors.FieldError{
			{Field: "firstName", Message: "First name must be at least 2 characters"},
		})).Once()

	w, resp := postContact(t, setupContactRouter(svc), "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, resp.Errors, 1)
	svc.AssertExpectations(t)
}

func TestGetRules(t *testing.T) {
	svc := new(MockContactService)
	svc.On("Rules").Return(types.ContactRules{
		NameMinLength:    2,
		PhonePattern:     `^(\+880|880)?[1-9][0-9]{8,10}$`,
		MessageMinLength: 10,
		MessageMaxLength: 1000,
		MaxSubmissions:   5,
		WindowSeconds:    3600,
	})

	w := httptest.NewRecorder()
	setupContactRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contact/rules", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool               `json:"success"`
		Data    types.ContactRules `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 5, body.Data.MaxSubmissions)
	assert.Equal(t, `^(\+880|880)?[1-9][0-9]{8,10}$`, body.Data.PhonePattern)
}
