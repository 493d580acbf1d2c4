package ast

// PrimaryKeyNode is a named table-level primary key.
type PrimaryKeyNode struct {
	Name    string
	Columns []string
}

// UniqueConstraintNode is a named table-level unique constraint.
type UniqueConstraintNode struct {
	Name    string
	Columns []string
}

// Referential actions for foreign keys.
const (
	ActionNoAction = "NO ACTION"
	ActionCascade  = "CASCADE"
	ActionSetNull  = "SET NULL"
	ActionRestrict = "RESTRICT"
)

// AddForeignKeyNode adds a foreign key constraint.
//
// The owning table lives in Schema and the referenced (principal) table lives in
// PrincipalSchema. Both are tracked separately because a foreign key may point
// across schemas in general, even though tenant rewriting always collapses them
// into the tenant's schema.
type AddForeignKeyNode struct {
	// Schema is the schema of the owning table
	Schema string
	// Table is the owning table
	Table string
	// Name is the constraint name
	Name string
	// Columns are the referencing columns in the owning table
	Columns []string
	// PrincipalSchema is the schema of the referenced table
	PrincipalSchema string
	// PrincipalTable is the referenced table
	PrincipalTable string
	// PrincipalColumns are the referenced columns
	PrincipalColumns []string
	// OnDelete is the referential action on delete (empty means dialect default)
	OnDelete string
	// OnUpdate is the referential action on update (empty means dialect default)
	OnUpdate string
}

// NewAddForeignKey creates a new foreign key node.
//
// Example:
//
//	fk := NewAddForeignKey("FK_Orders_Customers", "Orders", []string{"CustomerId"}).
//		References("Customers", "CustomerId").
//		SetOnDelete(ActionCascade)
func NewAddForeignKey(name, table string, columns []string) *AddForeignKeyNode {
	return &AddForeignKeyNode{
		Name:    name,
		Table:   table,
		Columns: columns,
	}
}

// References sets the principal table and columns and returns the node for chaining.
func (n *AddForeignKeyNode) References(table string, columns ...string) *AddForeignKeyNode {
	n.PrincipalTable = table
	n.PrincipalColumns = columns
	return n
}

// SetOnDelete sets the ON DELETE action and returns the node for chaining.
func (n *AddForeignKeyNode) SetOnDelete(action string) *AddForeignKeyNode {
	n.OnDelete = action
	return n
}

// SetOnUpdate sets the ON UPDATE action and returns the node for chaining.
func (n *AddForeignKeyNode) SetOnUpdate(action string) *AddForeignKeyNode {
	n.OnUpdate = action
	return n
}

// Accept implements the Operation interface for AddForeignKeyNode.
func (n *AddForeignKeyNode) Accept(visitor Visitor) error {
	return visitor.VisitAddForeignKey(n)
}

// DropForeignKeyNode drops a foreign key constraint.
type DropForeignKeyNode struct {
	// Schema is the schema of the owning table
	Schema string
	// Table is the owning table
	Table string
	// Name is the constraint name
	Name string
}

// NewDropForeignKey creates a new drop-foreign-key node.
func NewDropForeignKey(name, table string) *DropForeignKeyNode {
	return &DropForeignKeyNode{Name: name, Table: table}
}

// Accept implements the Operation interface for DropForeignKeyNode.
func (n *DropForeignKeyNode) Accept(visitor Visitor) error {
	return visitor.VisitDropForeignKey(n)
}
