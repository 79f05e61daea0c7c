// Package firestoredb implements the student repository on top of the
// Firestore document store the mobile app reads from.
package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/PranayN1999/my-gradebook-app/core"
)

func Open(ctx context.Context, conf *core.Config) (*firestore.Client, error) {
	var opts []option.ClientOption
	if conf.Firestore.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(conf.Firestore.CredentialsFile))
	}
	return firestore.NewClient(ctx, conf.Firestore.ProjectID, opts...)
}
