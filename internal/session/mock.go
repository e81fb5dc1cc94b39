package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Chaturved5/estate-portal/internal/models"
	"github.com/Chaturved5/estate-portal/internal/store"
)

// mockUser is one row of the offline credential table. The table lives in the
// local store and stands in for the auth backend when no API URL is set.
type mockUser struct {
	User         models.User `json:"user"`
	PasswordHash string      `json:"passwordHash"`
	Token        string      `json:"token,omitempty"` // last issued bearer token
}

// demo accounts seeded into an empty table so the offline portal is usable
// out of the box. Password for all of them: portal123
var demoUsers = []struct {
	name  string
	email string
	role  models.Role
}{
	{"Portal Admin", "admin@estateportal.in", models.RoleAdmin},
	{"Rohan Mehta", "owner@estateportal.in", models.RoleOwner},
	{"Priya Shah", "agent@estateportal.in", models.RoleAgent},
	{"Aarav Kumar", "buyer@estateportal.in", models.RoleBuyer},
}

func (c *Container) loadMockTable() []mockUser {
	table := store.Load(c.st, mockUsersKey, []mockUser(nil))
	if len(table) > 0 {
		return table
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("portal123"), bcrypt.DefaultCost)
	if err != nil {
		return nil
	}
	now := time.Now().UTC()
	for _, d := range demoUsers {
		table = append(table, mockUser{
			User: models.User{
				ID:        uuid.NewString(),
				Name:      d.name,
				Email:     d.email,
				Role:      d.role,
				CreatedAt: now,
				UpdatedAt: now,
			},
			PasswordHash: string(hash),
		})
	}
	c.st.Save(mockUsersKey, table)
	return table
}

func (c *Container) saveMockTable(table []mockUser) {
	c.st.Save(mockUsersKey, table)
}

// mockUserByToken re-validates a rehydrated token against the table.
func (c *Container) mockUserByToken(token string) (models.User, bool) {
	for _, mu := range c.loadMockTable() {
		if mu.Token != "" && mu.Token == token {
			return mu.User, true
		}
	}
	return models.User{}, false
}

func (c *Container) mockLogin(email, password string) (*models.User, error) {
	table := c.loadMockTable()
	for i, mu := range table {
		if mu.User.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(mu.PasswordHash), []byte(password)) != nil {
			return nil, errors.New("login failed: invalid credentials")
		}
		token := uuid.NewString()
		table[i].Token = token
		c.saveMockTable(table)
		c.commit(models.Session{Token: token, User: mu.User})
		u := mu.User
		return &u, nil
	}
	return nil, errors.New("login failed: invalid credentials")
}

func (c *Container) mockRegister(in RegisterInput) (*models.User, error) {
	table := c.loadMockTable()
	for _, mu := range table {
		if mu.User.Email == in.Email {
			return nil, fmt.Errorf("registration failed: %s is already registered", in.Email)
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %s", err)
	}
	now := time.Now().UTC()
	user := models.User{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		Phone:     in.Phone,
		Company:   in.Company,
		CreatedAt: now,
		UpdatedAt: now,
	}
	token := uuid.NewString()
	table = append(table, mockUser{User: user, PasswordHash: string(hash), Token: token})
	c.saveMockTable(table)
	c.commit(models.Session{Token: token, User: user})
	return &user, nil
}

func (c *Container) mockUpdateProfile(cur *models.Session, up ProfileUpdate) (*models.User, error) {
	table := c.loadMockTable()
	for i := range table {
		if table[i].User.ID != cur.User.ID {
			continue
		}
		u := &table[i].User
		if up.Name != nil {
			u.Name = *up.Name
		}
		if up.Phone != nil {
			u.Phone = *up.Phone
		}
		if up.Company != nil {
			u.Company = *up.Company
		}
		if up.Bio != nil {
			u.Bio = *up.Bio
		}
		u.UpdatedAt = time.Now().UTC()
		c.saveMockTable(table)
		c.commit(models.Session{Token: cur.Token, User: *u})
		out := *u
		return &out, nil
	}
	return nil, ErrNoActiveSession
}

func (c *Container) mockChangePassword(cur *models.Session, current, next string) error {
	table := c.loadMockTable()
	for i := range table {
		if table[i].User.ID != cur.User.ID {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(table[i].PasswordHash), []byte(current)) != nil {
			return errors.New("password change failed: current password is incorrect")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("password change failed: %s", err)
		}
		table[i].PasswordHash = string(hash)
		c.saveMockTable(table)
		return nil
	}
	return ErrNoActiveSession
}
