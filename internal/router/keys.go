package router

import (
	"context"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/catalog"
)

// ProviderKey is one user-supplied credential.
type ProviderKey struct {
	Key   string
	Valid bool // set by an out-of-band key check; invalid keys are never used
}

// ResolvedKeys carries everything key- and model-related the router needs for
// one request. It is built once per request by the caller; the router itself
// never reads user settings or platform tables.
type ResolvedKeys struct {
	PreferredModelID string // user setting; empty -> platform default
	UserKeys         map[constants.Provider]ProviderKey
	PlatformKeys     map[constants.Provider]string
	ManagedEligible  bool // user may consume platform-managed keys
}

// keySource records which credential pool served a request.
type keySource int

const (
	keySourceNone keySource = iota
	keySourceUser
	keySourcePlatform
)

// resolveKey applies the strict priority: valid BYOK first, then a platform
// key if the user is eligible for managed usage. Fail closed otherwise.
func (k ResolvedKeys) resolveKey(p constants.Provider) (string, keySource) {
	if uk, ok := k.UserKeys[p]; ok && uk.Valid && uk.Key != "" {
		return uk.Key, keySourceUser
	}
	if k.ManagedEligible {
		if pk, ok := k.PlatformKeys[p]; ok && pk != "" {
			return pk, keySourcePlatform
		}
	}
	return "", keySourceNone
}

// UsageRecorder appends extraction cost/tokens to a billing ledger.
// Platform-managed usage is recorded against the platform scope only.
type UsageRecorder interface {
	RecordPlatformUsage(ctx context.Context, userID, modelID string, usage catalog.Usage, costUSD float64) error
}
