// Package firestore adapts the core repository ports to Google Cloud
// Firestore. Documents live in the users, polls, votes and refresh_tokens
// collections; vote uniqueness relies on Firestore's create-if-absent
// semantics with a composite document ID.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

const (
	usersCollection         = "users"
	pollsCollection         = "polls"
	votesCollection         = "votes"
	refreshTokensCollection = "refresh_tokens"
)

// NewClient initializes a Firestore client through the Firebase app. When
// credentialsFile is empty, application default credentials are used.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore client: %w", err)
	}

	return client, nil
}
