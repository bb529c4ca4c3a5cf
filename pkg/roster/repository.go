package roster

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	GetGroups(ctx context.Context, userId int) ([]Group, error)
	StoreGroups(ctx context.Context, userId int, groups []Group) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetGroups(ctx context.Context, userId int) ([]Group, error) {
	query := `SELECT g.id, g.name, m.name, m.display_name, m.email_address
		FROM user_groups g
		LEFT JOIN user_group_members m ON m.group_id = g.id
		WHERE g.user_id = $1
		ORDER BY g.position, m.position`

	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query user groups: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	groups := make([]Group, 0)
	lastGroupId := -1
	for rows.Next() {
		var groupId int
		var groupName string
		var name, displayName, email *string
		if err := rows.Scan(&groupId, &groupName, &name, &displayName, &email); err != nil {
			return nil, fmt.Errorf("could not scan user group: %w", err)
		}
		if groupId != lastGroupId {
			groups = append(groups, Group{Name: groupName, Users: []Member{}})
			lastGroupId = groupId
		}
		if name == nil {
			continue
		}
		current := &groups[len(groups)-1]
		current.Users = append(current.Users, Member{Name: *name, DisplayName: deref(displayName), EmailAddress: deref(email)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// StoreGroups replaces the groups of a user within one transaction.
func (r *RepositoryImpl) StoreGroups(ctx context.Context, userId int, groups []Group) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM user_groups WHERE user_id = $1", userId); err != nil {
		err := fmt.Errorf("could not delete user groups: %w", err)
		log.Error(err)
		return err
	}

	for position, group := range groups {
		var groupId int
		err := tx.QueryRow(ctx, "INSERT INTO user_groups (user_id, name, position) VALUES ($1, $2, $3) RETURNING id",
			userId, group.Name, position).Scan(&groupId)
		if err != nil {
			err := fmt.Errorf("could not store user group %s: %w", group.Name, err)
			log.Error(err)
			return err
		}

		batch := &pgx.Batch{}
		for memberPosition, member := range group.Users {
			batch.Queue("INSERT INTO user_group_members (group_id, name, display_name, email_address, position) VALUES ($1, $2, $3, $4, $5)",
				groupId, member.Name, member.DisplayName, member.EmailAddress, memberPosition)
		}
		if batch.Len() > 0 {
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				err := fmt.Errorf("could not store members of group %s: %w", group.Name, err)
				log.Error(err)
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
