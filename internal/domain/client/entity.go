package client

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrEmptyName = errors.New("client name is required")

// Client is a restaurant guest able to sign in, book tables and call a waiter.
type Client struct {
	id           uuid.UUID
	email        Email
	name         string
	passwordHash string
	isActive     bool
}

func NewClient(email Email, name, passwordHash string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Client{
		id:           uuid.New(),
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		isActive:     true,
	}, nil
}

func (c *Client) ID() uuid.UUID        { return c.id }
func (c *Client) Email() Email         { return c.email }
func (c *Client) Name() string         { return c.name }
func (c *Client) PasswordHash() string { return c.passwordHash }
func (c *Client) IsActive() bool       { return c.isActive }
