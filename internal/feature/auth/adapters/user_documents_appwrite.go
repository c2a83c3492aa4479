package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"snapgram/internal/feature/auth/domain/entity"
	"snapgram/internal/feature/auth/usecase"
	"snapgram/internal/platform/appwrite"
)

// userDocument is the shape of a document in the user collection.
type userDocument struct {
	ID        string `json:"$id,omitempty"`
	AccountID string `json:"accountId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	ImageURL  string `json:"imageUrl"`
	Bio       string `json:"bio,omitempty"`
}

func (d userDocument) toEntity() entity.User {
	return entity.User{
		ID:        d.ID,
		AccountID: d.AccountID,
		Name:      d.Name,
		Username:  d.Username,
		Email:     d.Email,
		ImageURL:  d.ImageURL,
		Bio:       d.Bio,
	}
}

// userDocumentsAppwrite はUserDocumentStoreインターフェースのAppwrite実装です。
type userDocumentsAppwrite struct {
	client       *appwrite.Client
	databaseID   string
	collectionID string
}

var _ usecase.UserDocumentStore = (*userDocumentsAppwrite)(nil)

// NewUserDocumentsAppwrite は指定されたデータベースとコレクションを使うuserDocumentsAppwriteを生成します。
func NewUserDocumentsAppwrite(client *appwrite.Client, databaseID, collectionID string) *userDocumentsAppwrite {
	return &userDocumentsAppwrite{client: client, databaseID: databaseID, collectionID: collectionID}
}

// Create はユーザードキュメントを作成し、保存されたレコードを返します。
func (r *userDocumentsAppwrite) Create(ctx context.Context, creds *entity.Credentials, id string, u *entity.User) (*entity.User, error) {
	data := userDocument{
		AccountID: u.AccountID,
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		ImageURL:  u.ImageURL,
	}
	raw, err := r.client.CreateDocument(ctx, cookies(creds), r.databaseID, r.collectionID, id, data)
	if err != nil {
		return nil, err
	}
	doc, err := decodeUserDocument(raw)
	if err != nil {
		return nil, err
	}
	saved := doc.toEntity()
	return &saved, nil
}

// ListByAccountID はaccountIdが一致するユーザーを返します。
func (r *userDocumentsAppwrite) ListByAccountID(ctx context.Context, creds *entity.Credentials, accountID string) ([]entity.User, error) {
	list, err := r.client.ListDocuments(ctx, cookies(creds), r.databaseID, r.collectionID, appwrite.Equal("accountId", accountID))
	if err != nil {
		return nil, err
	}
	users := make([]entity.User, 0, len(list.Documents))
	for _, raw := range list.Documents {
		doc, err := decodeUserDocument(raw)
		if err != nil {
			return nil, err
		}
		users = append(users, doc.toEntity())
	}
	return users, nil
}

// decodeUserDocument converts a raw document into the user shape.
func decodeUserDocument(raw map[string]any) (userDocument, error) {
	var doc userDocument
	b, err := json.Marshal(raw)
	if err != nil {
		return doc, fmt.Errorf("encode user document: %w", err)
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, fmt.Errorf("decode user document: %w", err)
	}
	return doc, nil
}
