package mocks

import (
	"errors"

	"github.com/stokaro/schemaroute/core/ast"
)

var _ ast.Visitor = (*MockVisitor)(nil)

// MockVisitor implements the Visitor interface for testing
type MockVisitor struct {
	VisitedNodes []string
	ReturnError  bool
}

func (m *MockVisitor) visit(entry string) error {
	m.VisitedNodes = append(m.VisitedNodes, entry)
	if m.ReturnError {
		return errors.New("mock error")
	}
	return nil
}

func (m *MockVisitor) VisitCreateDatabase(node *ast.CreateDatabaseNode) error {
	return m.visit("CreateDatabase:" + node.Name)
}

func (m *MockVisitor) VisitDropDatabase(node *ast.DropDatabaseNode) error {
	return m.visit("DropDatabase:" + node.Name)
}

func (m *MockVisitor) VisitEnsureSchema(node *ast.EnsureSchemaNode) error {
	return m.visit("EnsureSchema:" + node.Name)
}

func (m *MockVisitor) VisitDropSchema(node *ast.DropSchemaNode) error {
	return m.visit("DropSchema:" + node.Name)
}

func (m *MockVisitor) VisitCreateTable(node *ast.CreateTableNode) error {
	return m.visit("CreateTable:" + node.Name)
}

func (m *MockVisitor) VisitDropTable(node *ast.DropTableNode) error {
	return m.visit("DropTable:" + node.Name)
}

func (m *MockVisitor) VisitRenameTable(node *ast.RenameTableNode) error {
	return m.visit("RenameTable:" + node.Name)
}

func (m *MockVisitor) VisitAddColumn(node *ast.AddColumnNode) error {
	return m.visit("AddColumn:" + node.Table)
}

func (m *MockVisitor) VisitAlterColumn(node *ast.AlterColumnNode) error {
	return m.visit("AlterColumn:" + node.Table)
}

func (m *MockVisitor) VisitDropColumn(node *ast.DropColumnNode) error {
	return m.visit("DropColumn:" + node.Name)
}

func (m *MockVisitor) VisitRenameColumn(node *ast.RenameColumnNode) error {
	return m.visit("RenameColumn:" + node.Name)
}

func (m *MockVisitor) VisitCreateIndex(node *ast.CreateIndexNode) error {
	return m.visit("CreateIndex:" + node.Name)
}

func (m *MockVisitor) VisitDropIndex(node *ast.DropIndexNode) error {
	return m.visit("DropIndex:" + node.Name)
}

func (m *MockVisitor) VisitRenameIndex(node *ast.RenameIndexNode) error {
	return m.visit("RenameIndex:" + node.Name)
}

func (m *MockVisitor) VisitAddForeignKey(node *ast.AddForeignKeyNode) error {
	return m.visit("AddForeignKey:" + node.Name)
}

func (m *MockVisitor) VisitDropForeignKey(node *ast.DropForeignKeyNode) error {
	return m.visit("DropForeignKey:" + node.Name)
}

func (m *MockVisitor) VisitInsertData(node *ast.InsertDataNode) error {
	return m.visit("InsertData:" + node.Table)
}

func (m *MockVisitor) VisitSQL(node *ast.SQLNode) error {
	return m.visit("SQL:" + node.SQL)
}

func (m *MockVisitor) VisitComment(node *ast.CommentNode) error {
	return m.visit("Comment:" + node.Text)
}
