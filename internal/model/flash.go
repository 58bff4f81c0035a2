package model

// Flash is a one-time message carried in the session until the next page render.
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}
