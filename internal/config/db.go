package config

// Supported values of DB.GormEngine.
const (
	DBEngineMySQL    = "mysql"
	DBEnginePostgres = "postgres"
	DBEngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	GormEngine string // mysql, postgres or sqlite; Name is the file path for sqlite
}
