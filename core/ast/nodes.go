package ast

// CreateDatabaseNode represents a CREATE DATABASE statement.
//
// Databases sit above schemas, so the node carries no schema name.
type CreateDatabaseNode struct {
	// Name is the name of the database to create
	Name string
}

// NewCreateDatabase creates a new CREATE DATABASE node.
func NewCreateDatabase(name string) *CreateDatabaseNode {
	return &CreateDatabaseNode{Name: name}
}

// Accept implements the Operation interface for CreateDatabaseNode.
func (n *CreateDatabaseNode) Accept(visitor Visitor) error {
	return visitor.VisitCreateDatabase(n)
}

// DropDatabaseNode represents a DROP DATABASE statement.
type DropDatabaseNode struct {
	// Name is the name of the database to drop
	Name string
}

// NewDropDatabase creates a new DROP DATABASE node.
func NewDropDatabase(name string) *DropDatabaseNode {
	return &DropDatabaseNode{Name: name}
}

// Accept implements the Operation interface for DropDatabaseNode.
func (n *DropDatabaseNode) Accept(visitor Visitor) error {
	return visitor.VisitDropDatabase(n)
}

// EnsureSchemaNode creates a schema unless it already exists.
type EnsureSchemaNode struct {
	// Name is the schema name
	Name string
}

// NewEnsureSchema creates a new ensure-schema node.
//
// Example:
//
//	schema := NewEnsureSchema("dbo")
func NewEnsureSchema(name string) *EnsureSchemaNode {
	return &EnsureSchemaNode{Name: name}
}

// Accept implements the Operation interface for EnsureSchemaNode.
func (n *EnsureSchemaNode) Accept(visitor Visitor) error {
	return visitor.VisitEnsureSchema(n)
}

// DropSchemaNode represents a DROP SCHEMA statement.
type DropSchemaNode struct {
	// Name is the schema name
	Name string
	// Cascade drops every object in the schema as well (PostgreSQL)
	Cascade bool
}

// NewDropSchema creates a new DROP SCHEMA node.
func NewDropSchema(name string) *DropSchemaNode {
	return &DropSchemaNode{Name: name}
}

// SetCascade sets the CASCADE option and returns the node for chaining.
func (n *DropSchemaNode) SetCascade() *DropSchemaNode {
	n.Cascade = true
	return n
}

// Accept implements the Operation interface for DropSchemaNode.
func (n *DropSchemaNode) Accept(visitor Visitor) error {
	return visitor.VisitDropSchema(n)
}

// CreateTableNode represents a CREATE TABLE statement with all its components.
//
// Foreign keys declared with the table are kept as AddForeignKeyNode values so
// they carry their own owning and principal schema, exactly like a standalone
// foreign key added later.
type CreateTableNode struct {
	// Schema is the schema the table is created in
	Schema string
	// Name is the name of the table to create
	Name string
	// Columns contains all column definitions for the table
	Columns []*ColumnNode
	// PrimaryKey is the optional table-level primary key
	PrimaryKey *PrimaryKeyNode
	// UniqueConstraints contains table-level unique constraints
	UniqueConstraints []*UniqueConstraintNode
	// ForeignKeys contains foreign keys created together with the table
	ForeignKeys []*AddForeignKeyNode
	// Comment is an optional table comment
	Comment string
	// IfNotExists skips creation when the table is already there
	IfNotExists bool
}

// NewCreateTable creates a new CREATE TABLE node with the specified table name.
//
// Example:
//
//	table := NewCreateTable("Customers").
//		AddColumn(NewColumn("CustomerId", "INTEGER").SetAutoIncrement().SetNotNull()).
//		SetPrimaryKey("PK_CustomerId", "CustomerId")
func NewCreateTable(name string) *CreateTableNode {
	return &CreateTableNode{
		Name:              name,
		Columns:           make([]*ColumnNode, 0),
		UniqueConstraints: make([]*UniqueConstraintNode, 0),
		ForeignKeys:       make([]*AddForeignKeyNode, 0),
	}
}

// Accept implements the Operation interface for CreateTableNode.
func (n *CreateTableNode) Accept(visitor Visitor) error {
	return visitor.VisitCreateTable(n)
}

// SetSchema sets the schema and returns the table node for chaining.
func (n *CreateTableNode) SetSchema(schema string) *CreateTableNode {
	n.Schema = schema
	return n
}

// AddColumn adds a column and returns the table node for chaining.
func (n *CreateTableNode) AddColumn(column *ColumnNode) *CreateTableNode {
	n.Columns = append(n.Columns, column)
	return n
}

// SetPrimaryKey sets a named table-level primary key and returns the table node for chaining.
func (n *CreateTableNode) SetPrimaryKey(name string, columns ...string) *CreateTableNode {
	n.PrimaryKey = &PrimaryKeyNode{Name: name, Columns: columns}
	return n
}

// AddUniqueConstraint adds a table-level unique constraint and returns the table node for chaining.
func (n *CreateTableNode) AddUniqueConstraint(name string, columns ...string) *CreateTableNode {
	n.UniqueConstraints = append(n.UniqueConstraints, &UniqueConstraintNode{Name: name, Columns: columns})
	return n
}

// AddForeignKey adds a foreign key created together with the table. The foreign
// key's owning table is set to this table.
func (n *CreateTableNode) AddForeignKey(fk *AddForeignKeyNode) *CreateTableNode {
	fk.Table = n.Name
	n.ForeignKeys = append(n.ForeignKeys, fk)
	return n
}

// SetComment sets a table comment and returns the table node for chaining.
func (n *CreateTableNode) SetComment(comment string) *CreateTableNode {
	n.Comment = comment
	return n
}

// SetIfNotExists sets the IF NOT EXISTS option and returns the table node for chaining.
func (n *CreateTableNode) SetIfNotExists() *CreateTableNode {
	n.IfNotExists = true
	return n
}

// DropTableNode represents a DROP TABLE statement.
type DropTableNode struct {
	// Schema is the schema of the table
	Schema string
	// Name is the table name
	Name string
	// IfExists adds IF EXISTS where the dialect supports it
	IfExists bool
}

// NewDropTable creates a new DROP TABLE node.
func NewDropTable(name string) *DropTableNode {
	return &DropTableNode{Name: name}
}

// SetIfExists sets the IF EXISTS option and returns the node for chaining.
func (n *DropTableNode) SetIfExists() *DropTableNode {
	n.IfExists = true
	return n
}

// Accept implements the Operation interface for DropTableNode.
func (n *DropTableNode) Accept(visitor Visitor) error {
	return visitor.VisitDropTable(n)
}

// RenameTableNode renames a table and/or moves it to another schema.
type RenameTableNode struct {
	// Schema is the current schema of the table
	Schema string
	// Name is the current table name
	Name string
	// NewSchema is the schema the table ends up in
	NewSchema string
	// NewName is the new table name; empty keeps the current name
	NewName string
}

// NewRenameTable creates a new rename-table node.
func NewRenameTable(name, newName string) *RenameTableNode {
	return &RenameTableNode{Name: name, NewName: newName}
}

// Accept implements the Operation interface for RenameTableNode.
func (n *RenameTableNode) Accept(visitor Visitor) error {
	return visitor.VisitRenameTable(n)
}

// ColumnNode represents a column definition.
//
// It is not an Operation on its own; AddColumnNode, AlterColumnNode and
// CreateTableNode carry it.
type ColumnNode struct {
	// Name is the column name
	Name string
	// Type is the column data type (e.g., "INTEGER", "VARCHAR(255)")
	Type string
	// Nullable indicates whether the column allows NULL values (default: true)
	Nullable bool
	// AutoInc indicates whether the column is generated by the database on insert
	AutoInc bool
	// Default contains the default value specification (literal or function)
	Default *DefaultValue
	// Comment is an optional column comment
	Comment string
}

// DefaultValue is a column default: either a literal already formatted for SQL,
// or an expression such as CURRENT_TIMESTAMP.
type DefaultValue struct {
	Value      string
	Expression string
}

// NewColumn creates a new nullable column node with the specified name and data type.
func NewColumn(name, dataType string) *ColumnNode {
	return &ColumnNode{
		Name:     name,
		Type:     dataType,
		Nullable: true,
	}
}

// SetNotNull marks the column as NOT NULL and returns the column for chaining.
func (n *ColumnNode) SetNotNull() *ColumnNode {
	n.Nullable = false
	return n
}

// SetAutoIncrement marks the column as database generated and returns the column for chaining.
//
// Rendering varies by database:
//   - PostgreSQL: GENERATED BY DEFAULT AS IDENTITY
//   - MySQL/MariaDB: AUTO_INCREMENT
//   - SQL Server: IDENTITY(1,1)
func (n *ColumnNode) SetAutoIncrement() *ColumnNode {
	n.AutoInc = true
	n.Nullable = false
	return n
}

// SetDefault sets a literal default value and returns the column for chaining.
//
// The value should be properly quoted for string literals (e.g., "'active'").
func (n *ColumnNode) SetDefault(value string) *ColumnNode {
	n.Default = &DefaultValue{Value: value}
	return n
}

// SetDefaultExpression sets a function as the default value and returns the column for chaining.
func (n *ColumnNode) SetDefaultExpression(fn string) *ColumnNode {
	n.Default = &DefaultValue{Expression: fn}
	return n
}

// AddColumnNode adds a column to an existing table.
type AddColumnNode struct {
	// Schema is the schema of the table
	Schema string
	// Table is the table name
	Table string
	// Column is the new column definition
	Column *ColumnNode
}

// NewAddColumn creates a new add-column node.
func NewAddColumn(table string, column *ColumnNode) *AddColumnNode {
	return &AddColumnNode{Table: table, Column: column}
}

// Accept implements the Operation interface for AddColumnNode.
func (n *AddColumnNode) Accept(visitor Visitor) error {
	return visitor.VisitAddColumn(n)
}

// AlterColumnNode changes the definition of an existing column.
type AlterColumnNode struct {
	// Schema is the schema of the table
	Schema string
	// Table is the table name
	Table string
	// Column is the complete new column definition
	Column *ColumnNode
}

// NewAlterColumn creates a new alter-column node.
func NewAlterColumn(table string, column *ColumnNode) *AlterColumnNode {
	return &AlterColumnNode{Table: table, Column: column}
}

// Accept implements the Operation interface for AlterColumnNode.
func (n *AlterColumnNode) Accept(visitor Visitor) error {
	return visitor.VisitAlterColumn(n)
}

// DropColumnNode removes a column.
type DropColumnNode struct {
	// Schema is the schema of the table
	Schema string
	// Table is the table name
	Table string
	// Name is the column to drop
	Name string
}

// NewDropColumn creates a new drop-column node.
func NewDropColumn(table, name string) *DropColumnNode {
	return &DropColumnNode{Table: table, Name: name}
}

// Accept implements the Operation interface for DropColumnNode.
func (n *DropColumnNode) Accept(visitor Visitor) error {
	return visitor.VisitDropColumn(n)
}

// RenameColumnNode renames a column.
type RenameColumnNode struct {
	// Schema is the schema of the table
	Schema string
	// Table is the table name
	Table string
	// Name is the current column name
	Name string
	// NewName is the new column name
	NewName string
}

// NewRenameColumn creates a new rename-column node.
func NewRenameColumn(table, name, newName string) *RenameColumnNode {
	return &RenameColumnNode{Table: table, Name: name, NewName: newName}
}

// Accept implements the Operation interface for RenameColumnNode.
func (n *RenameColumnNode) Accept(visitor Visitor) error {
	return visitor.VisitRenameColumn(n)
}

// CreateIndexNode represents a CREATE INDEX statement.
type CreateIndexNode struct {
	// Schema is the schema of the indexed table
	Schema string
	// Table is the name of the table to index
	Table string
	// Name is the index name
	Name string
	// Columns contains the indexed column names
	Columns []string
	// Unique indicates whether this is a unique index
	Unique bool
	// Filter is an optional WHERE clause for partial/filtered indexes
	Filter string
}

// NewCreateIndex creates a new CREATE INDEX node.
//
// Example:
//
//	index := NewCreateIndex("IX_Customers_LastName", "Customers", "LastName")
func NewCreateIndex(name, table string, columns ...string) *CreateIndexNode {
	return &CreateIndexNode{Name: name, Table: table, Columns: columns}
}

// SetUnique marks the index as unique and returns the index for chaining.
func (n *CreateIndexNode) SetUnique() *CreateIndexNode {
	n.Unique = true
	return n
}

// SetFilter sets a partial index condition and returns the index for chaining.
func (n *CreateIndexNode) SetFilter(filter string) *CreateIndexNode {
	n.Filter = filter
	return n
}

// Accept implements the Operation interface for CreateIndexNode.
func (n *CreateIndexNode) Accept(visitor Visitor) error {
	return visitor.VisitCreateIndex(n)
}

// DropIndexNode represents a DROP INDEX statement.
//
// Some databases (MySQL, SQL Server) require the table name, others do not.
type DropIndexNode struct {
	// Schema is the schema of the index
	Schema string
	// Table is the indexed table
	Table string
	// Name is the index name
	Name string
}

// NewDropIndex creates a new DROP INDEX node.
func NewDropIndex(name, table string) *DropIndexNode {
	return &DropIndexNode{Name: name, Table: table}
}

// Accept implements the Operation interface for DropIndexNode.
func (n *DropIndexNode) Accept(visitor Visitor) error {
	return visitor.VisitDropIndex(n)
}

// RenameIndexNode renames an index.
type RenameIndexNode struct {
	// Schema is the schema of the index
	Schema string
	// Table is the indexed table
	Table string
	// Name is the current index name
	Name string
	// NewName is the new index name
	NewName string
}

// NewRenameIndex creates a new rename-index node.
func NewRenameIndex(table, name, newName string) *RenameIndexNode {
	return &RenameIndexNode{Table: table, Name: name, NewName: newName}
}

// Accept implements the Operation interface for RenameIndexNode.
func (n *RenameIndexNode) Accept(visitor Visitor) error {
	return visitor.VisitRenameIndex(n)
}
