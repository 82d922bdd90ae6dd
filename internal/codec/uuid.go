package codec

import (
	"fmt"

	"github.com/google/uuid"
)

var (
	minTimeUUID = uuid.Nil
	maxTimeUUID = uuid.Must(uuid.Parse("ffffffff-ffff-1fff-bfff-ffffffffffff"))
)

// GenerateUUID produces a v1 UUID according to the configured strategy, for
// use by a mapping's uuid() source function. FIXED is memoized on c, behind
// sync.Once, so every call against this context returns the same value,
// matching a reproducible-test-fixture use case, without racing or leaking
// across unrelated ConversionContexts shared concurrently by other mapper
// goroutines.
func (c *ConversionContext) GenerateUUID() (uuid.UUID, error) {
	switch c.UUIDGenerator {
	case UUIDMin:
		return minTimeUUID, nil
	case UUIDMax:
		return maxTimeUUID, nil
	case UUIDFixed:
		c.fixedUUIDOnce.Do(func() {
			c.fixedUUID, c.fixedUUIDErr = uuid.NewUUID()
		})
		return c.fixedUUID, c.fixedUUIDErr
	default: // UUIDRandom
		return uuid.NewUUID()
	}
}

func uuidStringCodec(ctx *ConversionContext, internal InternalType) Codec {
	return Codec{
		External: ExternalString,
		Internal: internal,
		ExternalToInternal: func(e any) (any, error) {
			s, _ := e.(string)
			if v, ok := ctx.loadNullFromString(s, internal); ok {
				return v, nil
			}
			u, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("uuid: cannot parse %q: %w", s, err)
			}
			return u, nil
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return ctx.unloadNull(ExternalString), nil
			}
			u, ok := i.(uuid.UUID)
			if !ok {
				return nil, fmt.Errorf("uuid: expected uuid.UUID, got %T", i)
			}
			return u.String(), nil
		},
	}
}
