package domain

// MockDefinition is a stored configuration describing how a synthetic
// endpoint responds.
type MockDefinition struct {
	ID           string `json:"id"`
	MockID       string `json:"mock_id"`
	OwnerID      string `json:"owner_id"`
	Endpoint     string `json:"endpoint"`
	Method       string `json:"method"`
	StatusCode   int    `json:"status_code"`
	DelayMs      int    `json:"delay_ms"`
	ChaosEnabled bool   `json:"chaos_enabled"`
	ChaosLevel   int    `json:"chaos_level"`
	Template     string `json:"template"`
	CreatedAt    string `json:"created_at" format:"date-time"`
	UpdatedAt    string `json:"updated_at" format:"date-time"`
}

// Settings holds per-owner defaults.
type Settings struct {
	OwnerID         string `json:"owner_id"`
	APIBaseURL      string `json:"api_base_url"`
	EnableChaosMode bool   `json:"enable_chaos_mode"`
	ChaosLevel      int    `json:"chaos_level"`
	UpdatedAt       string `json:"updated_at,omitempty" format:"date-time"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Payload    string `json:"payload_json"`
}

type APIKey struct {
	ID        string `json:"id"`
	ActorID   string `json:"actor_id"`
	Name      string `json:"name,omitempty"`
	KeyHash   string `json:"key_hash"`
	CreatedAt string `json:"created_at" format:"date-time"`
}
