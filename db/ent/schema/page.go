package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"

	"github.com/recordstack/chronology/constants"
	"github.com/recordstack/chronology/db/ent/schema/utils"
)

type Page struct {
	ent.Schema
}

func (Page) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "pages"},
	}
}

func (Page) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		// explicit FK so we can define a composite unique index
		field.UUID("document_id", uuid.UUID{}),
		field.Int("page_number").Positive(),
		field.Text("text").
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.Bool("has_date").Default(false),
		field.Time("date_of_service").Optional().Nillable().
			SchemaType(map[string]string{dialect.Postgres: "date"}),
		field.String("date_source").
			Validate(utils.EnumValidator(
				string(constants.SourceHeuristic),
				string(constants.SourceLLM),
				string(constants.SourceInherited),
				string(constants.SourceNone),
			)).
			Default(string(constants.SourceNone)),
		field.Int("inherited_from").Optional().Nillable(),
		field.String("document_type").Optional().Nillable(),
		field.String("text_hash").NotEmpty(),
		// simhash fingerprint; uint64 stored as bigint
		field.Int64("simhash").
			SchemaType(map[string]string{dialect.Postgres: "bigint"}),
		field.Time("created_at").Default(time.Now),
		field.Time("updated_at").Default(time.Now).UpdateDefault(time.Now),
	}
}

func (Page) Edges() []ent.Edge {
	return []ent.Edge{
		// MANY pages -> ONE document
		edge.From("document", Document.Type).
			Ref("pages").
			Field("document_id").
			Required().
			Unique(),
	}
}

func (Page) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("document_id", "page_number").Unique(),
		index.Fields("document_id", "text_hash"),
	}
}
