package bufwriter_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/schemaroute/core/renderer/dialects/internal/bufwriter"
)

func TestWriter(t *testing.T) {
	c := qt.New(t)
	var w bufwriter.Writer

	w.WriteStatement("SELECT 1;")
	w.WriteStatement("   ")
	w.WriteStatementf("DROP TABLE %s", "t")
	w.WriteString("CREATE TABLE t (")
	w.WriteStringf("id %s", "int")
	w.WriteString(");\n")
	w.EndStatement()

	c.Assert(w.Statements(), qt.DeepEquals, []string{
		"SELECT 1",
		"DROP TABLE t",
		"CREATE TABLE t (id int)",
	})

	w.Reset()
	c.Assert(w.Statements(), qt.HasLen, 0)
}
