package apiclient

// UserProfile is the authenticated user as the product API reports it.
type UserProfile struct {
	ID         int64              `json:"id"`
	Username   string             `json:"username"`
	Name       string             `json:"name,omitempty"`
	AvatarURL  string             `json:"avatar_url,omitempty"`
	Identities []ProviderIdentity `json:"identities,omitempty"`
}

// ProviderIdentity links the user to an account at an OAuth provider.
type ProviderIdentity struct {
	Provider string `json:"provider"`
	Username string `json:"username"`
}

// ExchangeResult is the API's answer to a successful code exchange.
type ExchangeResult struct {
	AccessToken string      `json:"access_token"`
	User        UserProfile `json:"user"`
}

// Workspace is a team workspace the user belongs to.
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Role string `json:"role,omitempty"`
}
