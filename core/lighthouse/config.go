package lighthouse

// Config holds the Lighthouse API settings.
type Config struct {
	// Endpoint is the account URL, e.g. https://foo.lighthouseapp.com for subdomain "foo".
	Endpoint string `mapstructure:"endpoint" default:"https://refraction.lighthouseapp.com"`
	// Token is the API token generated on the Lighthouse account page.
	Token string `mapstructure:"token" default:""`
	// ProjectID is the numeric project id (the "55411" in /projects/55411-foobar).
	ProjectID string `mapstructure:"project_id" default:""`
	// Limit caps the number of tickets per request. Zero leaves it to the server.
	Limit int `mapstructure:"limit" default:"0"`
	// TimeoutSeconds bounds the whole request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
