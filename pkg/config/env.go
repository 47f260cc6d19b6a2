package config

// EnvPrefix scopes every environment variable consumed by the service.
const EnvPrefix = "BIBLIO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BIBLIO_DB_DSN"
	EnvDBHost = "BIBLIO_DB_HOST"
	EnvDBUser = "BIBLIO_DB_USER"
	EnvDBName = "BIBLIO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
