// Package ast describes migration operations as a closed set of structural nodes.
//
// Each node is one schema-altering action (create a table, add a column, rename
// an index, ...). Nodes are planned once against a design-time schema, may have
// their schema fields rewritten for the tenant they are replayed for, and are
// finally rendered to dialect-specific SQL by a Visitor.
package ast

// Operation is a single migration operation that can be visited by a Visitor.
type Operation interface {
	// Accept implements the visitor pattern for rendering
	Accept(visitor Visitor) error
}

// Visitor is implemented by every consumer that needs to handle all operation kinds,
// most notably the dialect renderers. Adding a node kind adds a method here, so
// every renderer stops compiling until it handles the new kind.
type Visitor interface {
	VisitCreateDatabase(node *CreateDatabaseNode) error
	VisitDropDatabase(node *DropDatabaseNode) error
	VisitEnsureSchema(node *EnsureSchemaNode) error
	VisitDropSchema(node *DropSchemaNode) error
	VisitCreateTable(node *CreateTableNode) error
	VisitDropTable(node *DropTableNode) error
	VisitRenameTable(node *RenameTableNode) error
	VisitAddColumn(node *AddColumnNode) error
	VisitAlterColumn(node *AlterColumnNode) error
	VisitDropColumn(node *DropColumnNode) error
	VisitRenameColumn(node *RenameColumnNode) error
	VisitCreateIndex(node *CreateIndexNode) error
	VisitDropIndex(node *DropIndexNode) error
	VisitRenameIndex(node *RenameIndexNode) error
	VisitAddForeignKey(node *AddForeignKeyNode) error
	VisitDropForeignKey(node *DropForeignKeyNode) error
	VisitInsertData(node *InsertDataNode) error
	VisitSQL(node *SQLNode) error
	VisitComment(node *CommentNode) error
}
