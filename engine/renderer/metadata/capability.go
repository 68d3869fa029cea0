package metadata

import "fmt"

// Capability is the answer to "can the driver sample this format?".
//
// CapabilityUnavailable is returned when the driver gives no report to search.
// Like any non-zero answer it still leads to a load attempt.
type Capability int8

const (
	CapabilityUnavailable Capability = -1
	CapabilityUnsupported Capability = 0
	CapabilitySupported   Capability = 1
)

func CapabilityOf(supported bool) Capability {
	if supported {
		return CapabilitySupported
	}
	return CapabilityUnsupported
}

// Attempt reports whether a loader should be tried for this answer.
func (c Capability) Attempt() bool {
	return c != CapabilityUnsupported
}

func (c Capability) String() string {
	switch c {
	case CapabilityUnavailable:
		return "unavailable"
	case CapabilityUnsupported:
		return "unsupported"
	case CapabilitySupported:
		return "supported"
	}
	return fmt.Sprintf("Capability(%d)", int8(c))
}

/** @brief Compressed-format support of the live GPU context, probed once at startup. */
type CapabilityTable struct {
	ETC1  Capability
	ETC2  Capability
	PVRTC Capability
	S3TC  Capability
}
