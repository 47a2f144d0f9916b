package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewUserRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewUserRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewFlightRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewFlightRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewCartRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewCartRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingRepository(pool)
	assert.NotNil(t, repo)
}
