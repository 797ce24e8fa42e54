package models

// Candidate is an opaque connectivity-path descriptor relayed between
// the two call parties. Rows are append-only; per-contributor order is
// the insertion order.
type Candidate struct {
	BaseModel

	CallID  uint   `json:"call_id" gorm:"index"`
	Call    Call   `json:"call"`
	FromID  string `json:"from_id"`
	Payload string `json:"payload"`
}
