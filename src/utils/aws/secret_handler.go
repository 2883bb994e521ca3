package aws_handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
)

type SecretManager struct {
	svc secretsmanageriface.SecretsManagerAPI
}

func NewSecretManager(svc secretsmanageriface.SecretsManagerAPI) *SecretManager {
	return &SecretManager{svc: svc}
}

// GetSecretValue returns the string value of a secret. Secrets stored as a JSON
// object are read from the given field; plain strings are returned as they are.
func (s *SecretManager) GetSecretValue(ctx context.Context, secretID, field string) (string, error) {
	result, err := s.svc.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", secretID, err)
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", secretID)
	}

	value := strings.TrimSpace(*result.SecretString)
	if field == "" || !strings.HasPrefix(value, "{") {
		return value, nil
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		return "", fmt.Errorf("secret %s is not a JSON object of strings: %w", secretID, err)
	}
	v, ok := fields[field]
	if !ok {
		return "", fmt.Errorf("secret %s has no %q field", secretID, field)
	}
	return v, nil
}
