package types

// DBInfo contains connection and metadata information
type DBInfo struct {
	Dialect  string `json:"dialect"`  // postgres, mysql, mariadb, sqlserver
	Driver   string `json:"driver"`   // database/sql driver name
	Database string `json:"database"` // database named by the connection string, if any
	URL      string `json:"url"`      // connection string with the password redacted
}

// Connection is an open database handle with its metadata.
type Connection interface {
	Info() DBInfo
	Close() error
}
