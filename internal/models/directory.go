package models

// DirectoryStats aggregates the identity provider's user directory
type DirectoryStats struct {
	Total         int `json:"total"`
	Active        int `json:"active"`
	Inactive      int `json:"inactive"`
	Disabled      int `json:"disabled"`
	EmailVerified int `json:"emailVerified"`
	Batches       int `json:"batches"`
}

// CountResponse is the body of GET /api/count
type CountResponse struct {
	Success bool            `json:"success"`
	Stats   *DirectoryStats `json:"stats,omitempty"`
	Count   int             `json:"count"`
	Summary string          `json:"summary,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// AvatarUser is one entry of the landing page avatar strip
type AvatarUser struct {
	UID         string  `json:"uid"`
	PhotoURL    *string `json:"photoURL"`
	DisplayName string  `json:"displayName"`
}

// AvatarsResponse is the body of GET /api/avatars
type AvatarsResponse struct {
	Users []AvatarUser `json:"users"`
	Error string       `json:"error,omitempty"`
}
