package di

import (
	"context"

	"snapgram/internal/app/config"
	authadapters "snapgram/internal/feature/auth/adapters"
	"snapgram/internal/feature/auth/authctx"
	authhandler "snapgram/internal/feature/auth/transport/handler"
	"snapgram/internal/feature/auth/usecase"
	"snapgram/internal/platform/appwrite"
	infrahttp "snapgram/internal/platform/http"
)

// NewAppwriteClient creates a fully configured Appwrite client with HTTP client.
func NewAppwriteClient(cfg config.Appwrite) *appwrite.Client {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return appwrite.NewClient(appwrite.Config{
		Endpoint:  cfg.URL,
		ProjectID: cfg.ProjectID,
		Timeout:   cfg.Timeout,
	}, httpClient)
}

// NewAuthUsecase wires the auth usecase to the Appwrite account, database and avatar services.
func NewAuthUsecase(client *appwrite.Client, cfg config.Appwrite) *usecase.AuthUsecase {
	return usecase.NewAuthUsecase(
		authadapters.NewIdentityAppwrite(client),
		authadapters.NewUserDocumentsAppwrite(client, cfg.DatabaseID, cfg.UserCollectionID),
		client,
		appwrite.UniqueID,
	)
}

// StoreFunc exposes the provider's stores to the HTTP handlers.
func StoreFunc(p *authctx.Provider) authhandler.StoreFunc {
	return func(ctx context.Context, clientID string) (authhandler.ClientStore, error) {
		st, err := p.Store(ctx, clientID)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
}
