// Package google wires the external Google Calendar and Sheets services
// behind the interfaces the booking flow consumes.
package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// Clients bundles the authenticated Google API services.
type Clients struct {
	Calendar *calendar.Service
	Sheets   *sheets.Service
}

// NewClients builds Calendar and Sheets clients from a service-account
// credentials file with calendar and spreadsheet scopes.
func NewClients(ctx context.Context, credentialsFile string) (*Clients, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read google credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data,
		calendar.CalendarScope,
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}

	calSvc, err := calendar.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	sheetSvc, err := sheets.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Clients{Calendar: calSvc, Sheets: sheetSvc}, nil
}
