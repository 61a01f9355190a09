package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"egresados/pkg/logger"
)

// CredentialsOption prefers inline service account JSON, then a credentials file.
// It returns nil when neither is set so application default credentials apply.
func CredentialsOption(serviceAccountJSON, serviceAccountPath string) (option.ClientOption, error) {
	if serviceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(serviceAccountJSON)), nil
	}
	if serviceAccountPath == "" {
		return nil, nil
	}
	if _, err := os.Stat(serviceAccountPath); err != nil {
		return nil, fmt.Errorf("service account file %s: %w", serviceAccountPath, err)
	}
	logger.Info("Using Firebase service account from file: %s", serviceAccountPath)
	return option.WithCredentialsFile(serviceAccountPath), nil
}

// NewFirestoreClient initializes the Firebase app and returns its Firestore client.
func NewFirestoreClient(ctx context.Context, projectID string, opt option.ClientOption) (*firestore.Client, error) {
	var opts []option.ClientOption
	if opt != nil {
		opts = append(opts, opt)
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}
