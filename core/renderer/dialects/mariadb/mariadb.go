package mariadb

import (
	"github.com/stokaro/schemaroute/core/platform"
	"github.com/stokaro/schemaroute/core/renderer/dialects/mysql"
	"github.com/stokaro/schemaroute/core/renderer/types"
)

var (
	_ types.RenderVisitor = (*Renderer)(nil)
)

// Renderer provides MariaDB-specific SQL rendering.
//
// Every operation schemaroute emits renders identically on MariaDB 10.5+ and
// MySQL 8, so the MySQL renderer is reused under the MariaDB platform name.
type Renderer struct {
	*mysql.Renderer
}

// New creates a new MariaDB renderer
func New() *Renderer {
	return &Renderer{Renderer: mysql.NewWithDialect(platform.MariaDB)}
}
