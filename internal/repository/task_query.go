package repository

import (
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskly-be/internal/entities"
)

// TaskQuery selects tasks belonging to a single owner. The only way to build
// one is OwnedBy, so every task read, update and delete carries the owner.
type TaskQuery struct {
	ownerID string
	id      string
	search  string
	status  entities.TaskStatus
}

// OwnedBy starts a query scoped to ownerID
func OwnedBy(ownerID string) TaskQuery {
	return TaskQuery{ownerID: ownerID}
}

// ByID narrows the query to a single task id
func (q TaskQuery) ByID(id string) TaskQuery {
	q.id = id
	return q
}

// Matching narrows the query to tasks whose title or description contains
// search, ignoring case. The text is matched literally.
func (q TaskQuery) Matching(search string) TaskQuery {
	q.search = search
	return q
}

// WithStatus narrows the query to one status
func (q TaskQuery) WithStatus(status entities.TaskStatus) TaskQuery {
	q.status = status
	return q
}

func (q TaskQuery) validate() error {
	if q.ownerID == "" {
		return ErrMissingOwner
	}
	return nil
}

// sqlWhere renders the query as a WHERE clause. Placeholders start at $1.
func (q TaskQuery) sqlWhere() (string, []interface{}) {
	conds := []string{"user_id = $1"}
	args := []interface{}{q.ownerID}

	if q.id != "" {
		args = append(args, q.id)
		conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
	}
	if q.status != "" {
		args = append(args, string(q.status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if q.search != "" {
		args = append(args, "%"+escapeLike(q.search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}

	return strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (q TaskQuery) bsonFilter() bson.M {
	filter := bson.M{"user_id": q.ownerID}

	if q.id != "" {
		filter["_id"] = q.id
	}
	if q.status != "" {
		filter["status"] = string(q.status)
	}
	if q.search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	return filter
}

func (q TaskQuery) matches(t *entities.Task) bool {
	if t.UserID != q.ownerID {
		return false
	}
	if q.id != "" && t.ID != q.id {
		return false
	}
	if q.status != "" && t.Status != q.status {
		return false
	}
	if q.search != "" {
		needle := strings.ToLower(q.search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}
