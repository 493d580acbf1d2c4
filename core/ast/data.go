package ast

// InsertDataNode inserts literal rows, typically seed data shipped with a migration.
type InsertDataNode struct {
	// Schema is the schema of the table
	Schema string
	// Table is the target table
	Table string
	// Columns are the target columns
	Columns []string
	// Values holds one slice per row, in Columns order. Supported values are
	// nil, string, bool and the Go integer and float types.
	Values [][]any
}

// NewInsertData creates a new insert-data node.
func NewInsertData(table string, columns ...string) *InsertDataNode {
	return &InsertDataNode{Table: table, Columns: columns}
}

// AddRow appends a row and returns the node for chaining.
func (n *InsertDataNode) AddRow(values ...any) *InsertDataNode {
	n.Values = append(n.Values, values)
	return n
}

// Accept implements the Operation interface for InsertDataNode.
func (n *InsertDataNode) Accept(visitor Visitor) error {
	return visitor.VisitInsertData(n)
}

// SQLNode is a raw SQL statement passed through as is.
type SQLNode struct {
	SQL string
}

// NewSQL creates a raw SQL node.
func NewSQL(sql string) *SQLNode {
	return &SQLNode{SQL: sql}
}

// Accept implements the Operation interface for SQLNode.
func (n *SQLNode) Accept(visitor Visitor) error {
	return visitor.VisitSQL(n)
}

// CommentNode represents SQL comments that can be included in generated scripts.
type CommentNode struct {
	Text string
}

// NewComment creates a new comment node with the specified text.
func NewComment(text string) *CommentNode {
	return &CommentNode{Text: text}
}

// Accept implements the Operation interface for CommentNode.
func (n *CommentNode) Accept(visitor Visitor) error {
	return visitor.VisitComment(n)
}
