package repository

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestUserIndexesIncludeUniqueEmail(t *testing.T) {
	var found bool
	for _, idx := range userIndexes() {
		keys, ok := idx.Keys.(bson.D)
		if !ok || len(keys) != 1 || keys[0].Key != "email" {
			continue
		}
		if idx.Options == nil || idx.Options.Unique == nil || !*idx.Options.Unique {
			t.Fatal("email index is not unique")
		}
		found = true
	}
	if !found {
		t.Fatal("no email index declared")
	}
}
