// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/mepad/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isUnsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("meetings", meetingsSchema())
	ensure("tasks", tasksSchema())

	// Append-only; shape is owned by the audit store.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers ---------------------- */

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err == nil && len(names) > 0 {
		return nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		if hasCode(err, 48, "already exists", "namespace exists") {
			return nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Debug("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

// hasCode reports whether err is a command error with code, or mentions any
// of the given phrases (DocumentDB reports some failures only as text).
func hasCode(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isUnsupported(err error) bool {
	return hasCode(err, 59, "no such command") ||
		hasCode(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func enum(values []string) bson.M {
	a := make(bson.A, len(values))
	for i, v := range values {
		a[i] = v
	}
	return bson.M{"enum": a}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "email", "password_hash", "role", "status"},
			"properties": bson.M{
				"full_name":     nonBlank,
				"email":         nonBlank,
				"password_hash": nonBlank,
				"role":          enum([]string{models.RoleAdmin, models.RoleParticipant}),
				"status":        enum([]string{models.UserActive, models.UserDisabled}),
			},
		},
	}
}

func meetingsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "date", "venue", "summary", "created_by", "version"},
			"properties": bson.M{
				"title":        bson.M{"bsonType": "string", "minLength": 1, "maxLength": models.MaxMeetingTitle, "pattern": ".*\\S.*"},
				"date":         bson.M{"bsonType": "date"},
				"venue":        nonBlank,
				"summary":      nonBlank,
				"created_by":   bson.M{"bsonType": "objectId"},
				"participants": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
				"version":      bson.M{"bsonType": "long", "minimum": 1},
				"action_points": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"_id", "description", "due_date", "status"},
						"properties": bson.M{
							"description": nonBlank,
							"due_date":    bson.M{"bsonType": "date"},
							"status":      enum(models.ActionPointStatuses),
						},
					},
				},
				"pain_points": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"_id", "description", "severity", "status"},
						"properties": bson.M{
							"description": nonBlank,
							"severity":    enum(models.Severities),
							"status":      enum(models.PainPointStatuses),
						},
					},
				},
			},
		},
	}
}

func tasksSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "assigned_to", "status", "created_by"},
			"properties": bson.M{
				"title":       nonBlank,
				"assigned_to": bson.M{"bsonType": "objectId"},
				"created_by":  bson.M{"bsonType": "objectId"},
				"status":      enum(models.TaskStatuses),
			},
		},
	}
}
