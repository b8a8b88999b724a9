package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// generateDDL creates a CREATE TABLE statement from struct tags.
func generateDDL(model interface{}, tableName string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// All returns every relational model in creation order. Referenced
// tables come before the tables that reference them.
func All() []DDLGenerator {
	return []DDLGenerator{
		Reaction{},
		Reference{},
		Measurement{},
		SchemaMigration{},
	}
}

// Reaction DDL methods
func (r Reaction) TableDDL() string {
	return generateDDL(r, "reactions")
}

func (r Reaction) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_reactions_table_no ON reactions(table_no);",
		"CREATE UNIQUE INDEX idx_reactions_doc_no ON reactions(table_no, doc_reaction_no) WHERE doc_reaction_no != '';",
		"CREATE INDEX idx_reactions_canonical ON reactions(formula_canonical);",
		"CREATE INDEX idx_reactions_uuid ON reactions(uuid);",
		"CREATE INDEX idx_reactions_validated ON reactions(validated);",
	}
}

func (r Reaction) TableName() string {
	return "reactions"
}

// Measurement DDL methods
func (m Measurement) TableDDL() string {
	return generateDDL(m, "measurements")
}

func (m Measurement) IndexDDL() []string {
	return []string{
		"CREATE INDEX idx_measurements_reaction ON measurements(reaction_id);",
		"CREATE INDEX idx_measurements_reference ON measurements(reference_id);",
	}
}

func (m Measurement) TableName() string {
	return "measurements"
}

// Reference DDL methods
func (rf Reference) TableDDL() string {
	return generateDDL(rf, "references_map")
}

func (rf Reference) IndexDDL() []string {
	return []string{
		"CREATE UNIQUE INDEX idx_references_doc_code ON references_map(document_id, code);",
	}
}

func (rf Reference) TableName() string {
	return "references_map"
}

// SchemaMigration DDL methods
func (sm SchemaMigration) TableDDL() string {
	return generateDDL(sm, "schema_migrations")
}

func (sm SchemaMigration) IndexDDL() []string {
	return []string{}
}

func (sm SchemaMigration) TableName() string {
	return "schema_migrations"
}

// FTSDDL returns the FTS5 virtual table over the searchable
// projection of reactions. The table is contentless-delta backed by
// the reactions table itself, so rowids line up with reaction ids.
func FTSDDL() string {
	return `CREATE VIRTUAL TABLE reactions_fts USING fts5(
    reaction_name,
    formula_canonical,
    notes,
    content='reactions',
    content_rowid='id'
);`
}

// TriggerDDL returns the triggers that keep reactions_fts in sync
// with the reactions table. The triggers fire inside the writing
// transaction, so the index and the row commit or roll back together.
func TriggerDDL() []string {
	return []string{
		`CREATE TRIGGER reactions_ai AFTER INSERT ON reactions BEGIN
    INSERT INTO reactions_fts(rowid, reaction_name, formula_canonical, notes)
    VALUES (new.id, new.reaction_name, new.formula_canonical, new.notes);
END;`,
		`CREATE TRIGGER reactions_ad AFTER DELETE ON reactions BEGIN
    INSERT INTO reactions_fts(reactions_fts, rowid, reaction_name, formula_canonical, notes)
    VALUES ('delete', old.id, old.reaction_name, old.formula_canonical, old.notes);
END;`,
		`CREATE TRIGGER reactions_au AFTER UPDATE ON reactions BEGIN
    INSERT INTO reactions_fts(reactions_fts, rowid, reaction_name, formula_canonical, notes)
    VALUES ('delete', old.id, old.reaction_name, old.formula_canonical, old.notes);
    INSERT INTO reactions_fts(rowid, reaction_name, formula_canonical, notes)
    VALUES (new.id, new.reaction_name, new.formula_canonical, new.notes);
END;`,
	}
}
