// Package main provides a tool to seed the database with test engagement data.
//
// This reads existing users from the database and creates realistic quotes,
// likes, follows, and check-ins to test streak and badge progress features.
//
// Usage:
//
//	DATABASE_PATH=~/QuoteDeck/quotedeck.db go run ./cmd/seed
//	DATABASE_PATH=~/QuoteDeck/quotedeck.db go run ./cmd/seed --create-users  # Also create test users
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/quotedeck/quotedeck-server/internal/domain"
	"github.com/quotedeck/quotedeck-server/internal/id"
	"github.com/quotedeck/quotedeck-server/internal/normalize"
	"github.com/quotedeck/quotedeck-server/internal/store"
	"github.com/quotedeck/quotedeck-server/internal/store/sqlite"
)

var createUsers = flag.Bool("create-users", false, "Create test users for badge progress testing")

var quotePool = []struct {
	Text   string
	Author string
}{
	{"The unexamined life is not worth living.", "Socrates"},
	{"Carpe diem.", "Horace"},
	{"Life is what happens when you're busy making other plans.", "John Lennon"},
	{"Not all those who wander are lost.", "J.R.R. Tolkien"},
	{"Whereof one cannot speak, thereof one must be silent.", "Ludwig Wittgenstein"},
	{"The only way out is through.", "Robert Frost"},
	{"Simplicity is the ultimate sophistication.", "Leonardo da Vinci"},
	{"In the middle of difficulty lies opportunity.", "Albert Einstein"},
	{"We are what we repeatedly do.", "Will Durant"},
	{"Fortune favors the bold.", "Virgil"},
	{"No man ever steps in the same river twice.", "Heraclitus"},
	{"The journey of a thousand miles begins with a single step.", "Laozi"},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/QuoteDeck/quotedeck.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	// Optionally create test users
	if *createUsers {
		createTestUsers(ctx, s)
	}

	// Get all users
	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to get users: %v", err)
	}

	if len(users) == 0 {
		log.Fatal("No users found in database. Run with --create-users first.")
	}

	fmt.Printf("Found %d users\n", len(users))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, user := range users {
		fmt.Printf("\nSeeding data for user: %s (%s)\n", user.DisplayName, user.ID)

		quotesCreated := seedQuotes(ctx, s, rng, user)
		checkInsCreated := seedCheckIns(ctx, s, rng, user)
		followsCreated := seedFollows(ctx, s, rng, user, users)

		fmt.Printf("  Created %d quotes, %d check-ins, %d follows\n",
			quotesCreated, checkInsCreated, followsCreated)
	}

	seedLikes(ctx, s, rng, users)

	fmt.Println("\nDone.")
}

func createTestUsers(ctx context.Context, s store.Store) {
	names := []string{"Ada", "Blaise", "Carl", "Dorothy", "Edsger"}

	for i, name := range names {
		now := time.Now().UTC()
		user := &domain.User{
			ID:          id.MustGenerate(id.PrefixUser),
			ExternalID:  fmt.Sprintf("seed-%04d", i+1),
			DisplayName: name,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.CreateUser(ctx, user); err != nil {
			// Re-running the tool hits the external ID unique constraint
			fmt.Printf("  Skipping user %s: %v\n", name, err)
			continue
		}
		fmt.Printf("  Created user %s (%s)\n", name, user.ID)
	}
}

// seedQuotes posts 2-4 quotes per user spread over the past 14 days.
func seedQuotes(ctx context.Context, s store.Store, rng *rand.Rand, user *domain.User) int {
	created := 0
	numQuotes := 2 + rng.Intn(3)

	for i := 0; i < numQuotes; i++ {
		q := quotePool[rng.Intn(len(quotePool))]
		daysAgo := rng.Intn(14)
		at := time.Now().UTC().AddDate(0, 0, -daysAgo)

		quote := &domain.QuotePost{
			ID:            id.MustGenerate(id.PrefixQuote),
			UserID:        user.ID,
			Text:          q.Text,
			Author:        q.Author,
			NormalizedKey: normalize.Key(q.Text, q.Author),
			Published:     true,
			CreatedAt:     at,
		}
		if err := s.CreateQuote(ctx, quote); err != nil {
			log.Printf("Failed to create quote for %s: %v", user.ID, err)
			continue
		}
		created++
	}
	return created
}

// seedCheckIns creates check-ins over the past 14 days. Today and yesterday
// always get one so every seeded user has an active streak.
func seedCheckIns(ctx context.Context, s store.Store, rng *rand.Rand, user *domain.User) int {
	created := 0
	now := time.Now().UTC()

	for day := 13; day >= 0; day-- {
		if day > 1 && rng.Float32() > 0.8 {
			continue
		}
		c := &domain.CheckIn{
			UserID:    user.ID,
			Type:      "app_open",
			CreatedAt: now.AddDate(0, 0, -day),
		}
		if err := s.CreateCheckIn(ctx, c); err != nil {
			log.Printf("Failed to create check-in for %s: %v", user.ID, err)
			continue
		}
		created++
	}
	return created
}

// seedFollows makes each user follow up to 3 other seeded users.
func seedFollows(ctx context.Context, s store.Store, rng *rand.Rand, user *domain.User, all []*domain.User) int {
	created := 0
	for _, other := range all {
		if other.ID == user.ID || created >= 3 {
			continue
		}
		if rng.Float32() > 0.6 {
			continue
		}
		f := &domain.Follow{
			FollowerID: user.ID,
			FolloweeID: other.ID,
			CreatedAt:  time.Now().UTC().AddDate(0, 0, -rng.Intn(14)),
		}
		if err := s.CreateFollow(ctx, f); err != nil {
			// Duplicate follows from re-runs are fine
			continue
		}
		created++
	}
	return created
}

// seedLikes has each user like a few quotes posted by other users.
func seedLikes(ctx context.Context, s store.Store, rng *rand.Rand, users []*domain.User) {
	fmt.Println("\nSeeding likes...")
	likesCreated := 0

	for _, user := range users {
		for _, other := range users {
			if other.ID == user.ID {
				continue
			}
			quotes, err := s.ListQuotesForUser(ctx, other.ID)
			if err != nil || len(quotes) == 0 {
				continue
			}
			q := quotes[rng.Intn(len(quotes))]
			fav := &domain.Favorite{
				UserID:        user.ID,
				NormalizedKey: q.NormalizedKey,
				Text:          q.Text,
				Author:        q.Author,
				CreatedAt:     time.Now().UTC().AddDate(0, 0, -rng.Intn(7)),
			}
			if _, err := s.UpsertFavorite(ctx, fav); err != nil {
				log.Printf("Failed to create like for %s: %v", user.ID, err)
				continue
			}
			likesCreated++
		}
	}

	fmt.Printf("  Created %d likes\n", likesCreated)
}
