// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/stratasite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure(models.KindPost.Collection(), contentSchema(models.KindPost))
	ensure(models.KindProduct.Collection(), contentSchema(models.KindProduct))
	ensure("categories", categoriesSchema())
	ensure("pages", pagesSchema())
	ensure("form_submissions", submissionsSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "email", "role", "status"},
			"properties": bson.M{
				"full_name":     bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"full_name_ci":  bson.M{"bsonType": "string"},
				"email":         bson.M{"bsonType": "string", "minLength": 3},
				"password_hash": bson.M{"bsonType": "string"},
				"role":          bson.M{"enum": enumOf(models.AllRoles())},
				"status":        bson.M{"enum": bson.A{models.StatusActive, models.StatusDisabled}},
			},
		},
	}
}

// contentSchema guards the fields the publish workflow relies on. Publish
// completeness is checked in the service, not here: drafts may be partial.
func contentSchema(kind models.ContentKind) bson.M {
	types := bson.A{}
	for _, t := range models.AllPublishTypes() {
		types = append(types, string(t))
	}
	props := bson.M{
		"kind":         bson.M{"enum": bson.A{string(kind)}},
		"title":        bson.M{"bsonType": "string"},
		"slug":         bson.M{"bsonType": "string", "minLength": 1, "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
		"body":         bson.M{"bsonType": "string"},
		"categories":   bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
		"publish_type": bson.M{"enum": types},
		"published_at": bson.M{"bsonType": bson.A{"date", "null"}},
	}
	if kind == models.KindProduct {
		props["product"] = bson.M{
			"bsonType": bson.A{"object", "null"},
			"properties": bson.M{
				"price": bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}, "minimum": 0},
			},
		}
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   bson.A{"kind", "slug", "publish_type", "created_at"},
			"properties": props,
		},
	}
}

func categoriesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"kind", "name", "slug"},
			"properties": bson.M{
				"kind": bson.M{"enum": bson.A{string(models.KindPost), string(models.KindProduct)}},
				"name": bson.M{"bsonType": "string", "minLength": 1},
				"slug": bson.M{"bsonType": "string", "minLength": 1, "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
			},
		},
	}
}

func pagesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"slug", "title", "sections"},
			"properties": bson.M{
				"slug":     bson.M{"enum": enumOf(models.AllPageSlugs())},
				"title":    bson.M{"bsonType": "string"},
				"sections": bson.M{"bsonType": "array"},
			},
		},
	}
}

func submissionsSchema() bson.M {
	types := bson.A{}
	for _, t := range models.AllSubmissionTypes() {
		types = append(types, string(t))
	}
	statuses := bson.A{}
	for _, st := range models.AllSubmissionStatuses() {
		statuses = append(statuses, string(st))
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"reference", "type", "status", "name", "email", "metadata"},
			"properties": bson.M{
				"reference": bson.M{"bsonType": "string", "minLength": 1},
				"type":      bson.M{"enum": types},
				"status":    bson.M{"enum": statuses},
				"name":      bson.M{"bsonType": "string", "minLength": 1},
				"email":     bson.M{"bsonType": "string", "minLength": 3},
				"metadata": bson.M{
					"bsonType": "object",
					"required": bson.A{"ip_address", "submitted_at"},
				},
			},
		},
	}
}

func enumOf(ss []string) bson.A {
	out := make(bson.A, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
