// Command generate runs ent codegen for the chronology schemas. The generated
// client lands under gen/ent, which stays out of version control.
//
//go:generate go run .
package main

import (
	"log"

	"entgo.io/ent/entc"
	"entgo.io/ent/entc/gen"
)

func main() {
	cfg := &gen.Config{
		Target:  "../../gen/ent",
		Package: "github.com/recordstack/chronology/gen/ent",
		Schema:  "github.com/recordstack/chronology/db/ent/schema",
	}
	if err := entc.Generate("./schema", cfg); err != nil {
		log.Fatalf("ent codegen: %v", err)
	}
}
