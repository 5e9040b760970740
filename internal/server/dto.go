package server

import (
	"mockline/internal/domain"
)

// Request payloads

// MockRequest is accepted by create and update. Template may be a JSON
// string holding the template text or an inline JSON document; it is read
// from the raw body so key order survives.
type MockRequest struct {
	_          struct{} `json:"-" additionalProperties:"true"`
	Endpoint   *string  `json:"endpoint,omitempty" example:"/users"`
	Method     *string  `json:"method,omitempty" example:"GET"`
	StatusCode *int     `json:"statusCode,omitempty" example:"200"`
	Delay      *int     `json:"delay,omitempty" doc:"Artificial delay in milliseconds" example:"0"`
	ChaosMode  *bool    `json:"chaosMode,omitempty"`
	ChaosLevel *int     `json:"chaosLevel,omitempty" doc:"Activation probability in percent" example:"50"`
	Template   any      `json:"template,omitempty" doc:"JSON template, inline or as a string"`
}

type PreviewRequest struct {
	Template any `json:"template" doc:"JSON template, inline or as a string"`
}

type SettingsRequest struct {
	_               struct{} `json:"-" additionalProperties:"true"`
	APIBaseURL      *string  `json:"apiBaseUrl,omitempty"`
	EnableChaosMode *bool    `json:"enableChaosMode,omitempty"`
	ChaosLevel      *int     `json:"chaosLevel,omitempty"`
}

type DevLoginRequest struct {
	ActorID string `json:"actorId" example:"alice"`
}

// Response payloads

type MockResponse struct {
	ID         string `json:"id"`
	MockID     string `json:"mockId"`
	OwnerID    string `json:"ownerId"`
	Endpoint   string `json:"endpoint"`
	Method     string `json:"method"`
	StatusCode int    `json:"statusCode"`
	Delay      int    `json:"delay"`
	ChaosMode  bool   `json:"chaosMode"`
	ChaosLevel int    `json:"chaosLevel"`
	Template   string `json:"template"`
	CreatedAt  string `json:"createdAt" format:"date-time"`
	UpdatedAt  string `json:"updatedAt" format:"date-time"`
}

type CreateMockResponse struct {
	MockID   string `json:"mockId"`
	ID       string `json:"id"`
	Response any    `json:"response" doc:"One materialization of the template"`
}

type MockListResponse struct {
	MockAPIs []MockResponse `json:"mockApis"`
}

type MockEnvelope struct {
	MockAPI MockResponse `json:"mockApi"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

type PreviewResponse struct {
	Response any `json:"response"`
}

type SettingsResponse struct {
	APIBaseURL      string `json:"apiBaseUrl"`
	EnableChaosMode bool   `json:"enableChaosMode"`
	ChaosLevel      int    `json:"chaosLevel"`
	UpdatedAt       string `json:"updatedAt,omitempty" format:"date-time"`
}

type DevLoginResponse struct {
	Token string `json:"token"`
}

func mockResponse(m domain.MockDefinition) MockResponse {
	return MockResponse{
		ID:         m.ID,
		MockID:     m.MockID,
		OwnerID:    m.OwnerID,
		Endpoint:   m.Endpoint,
		Method:     m.Method,
		StatusCode: m.StatusCode,
		Delay:      m.DelayMs,
		ChaosMode:  m.ChaosEnabled,
		ChaosLevel: m.ChaosLevel,
		Template:   m.Template,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func mapMocks(items []domain.MockDefinition) []MockResponse {
	out := make([]MockResponse, 0, len(items))
	for _, m := range items {
		out = append(out, mockResponse(m))
	}
	return out
}

func settingsResponse(s domain.Settings) SettingsResponse {
	return SettingsResponse{
		APIBaseURL:      s.APIBaseURL,
		EnableChaosMode: s.EnableChaosMode,
		ChaosLevel:      s.ChaosLevel,
		UpdatedAt:       s.UpdatedAt,
	}
}
