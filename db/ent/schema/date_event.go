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

type DateEvent struct {
	ent.Schema
}

func (DateEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "date_events"},
	}
}

func (DateEvent) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.UUID("document_id", uuid.UUID{}),
		field.UUID("page_id", uuid.UUID{}),
		field.Int("page_number").Positive(),
		field.Time("event_date").
			SchemaType(map[string]string{dialect.Postgres: "date"}),
		field.Text("summary").NotEmpty(),
		field.String("event_type").
			Validate(utils.EnumValidator(constants.EventTypeStrings()...)),
		field.Bool("is_primary").Default(false),
		field.Float32("confidence").Optional(),
		field.String("source").
			Validate(utils.EnumValidator(
				string(constants.SourceHeuristic),
				string(constants.SourceLLM),
			)),
		field.Time("created_at").Default(time.Now),
	}
}

func (DateEvent) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("document", Document.Type).
			Ref("events").
			Field("document_id").
			Required().
			Unique(),
	}
}

func (DateEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("document_id", "event_date"),
		index.Fields("page_id"),
	}
}
