package config

// EnvPrefix is the envconfig prefix; individual fields carry explicit
// RETAILPOS_ names so the prefix stays empty.
const EnvPrefix = ""

// App environment names.
const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced in error messages.
const (
	EnvDBDSN  = "RETAILPOS_DB_DSN"
	EnvDBHost = "RETAILPOS_DB_HOST"
	EnvDBUser = "RETAILPOS_DB_USER"
	EnvDBName = "RETAILPOS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
