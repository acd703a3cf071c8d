package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"github.com/spaolacci/murmur3"

	"github.com/mash-protocol/svcbus/pkg/version"
)

const (
	// MaxNameLength is the longest service name kept; longer names are truncated.
	MaxNameLength = 64

	// InvalidServiceName is the reserved name of the invalid item.
	InvalidServiceName = "INVALID_SERVICE"

	// ChecksumIgnore is the fingerprint of every invalid item.
	ChecksumIgnore uint32 = 0

	// PathSeparator delimits the parts of item and address paths.
	PathSeparator = "/"
)

// ServiceItem identifies a named, versioned service of a given type.
// The zero value is invalid.
type ServiceItem struct {
	name    string
	version version.Version
	typ     ServiceType
	magic   uint32
}

// NewServiceItem creates an item, truncating name to MaxNameLength bytes.
func NewServiceItem(name string, ver version.Version, typ ServiceType) ServiceItem {
	s := ServiceItem{
		name:    truncateName(name),
		version: ver,
		typ:     typ,
	}
	s.magic = s.computeMagic()
	return s
}

// InvalidServiceItem returns the invalid item.
func InvalidServiceItem() ServiceItem {
	return ServiceItem{name: InvalidServiceName}
}

// truncateName cuts name to at most MaxNameLength bytes on a rune boundary.
func truncateName(name string) string {
	if len(name) <= MaxNameLength {
		return name
	}
	n := MaxNameLength
	for n > 0 && !utf8.RuneStart(name[n]) {
		n--
	}
	return name[:n]
}

// validName reports whether name can be streamed and written into a path.
func validName(name string) bool {
	return name != "" && name != InvalidServiceName &&
		utf8.ValidString(name) && !strings.Contains(name, PathSeparator)
}

// Magic computes the fingerprint of a (name, type) pair. It never returns
// ChecksumIgnore.
func Magic(name string, typ ServiceType) uint32 {
	h := murmur3.New32()
	_, _ = h.Write([]byte(truncateName(name)))
	_, _ = h.Write([]byte{0, byte(typ)})
	sum := h.Sum32()
	if sum == ChecksumIgnore {
		return 1
	}
	return sum
}

func (s *ServiceItem) computeMagic() uint32 {
	if !validName(s.name) || !s.version.IsValid() || !s.typ.IsValid() {
		return ChecksumIgnore
	}
	return Magic(s.name, s.typ)
}

// Name returns the service name.
func (s ServiceItem) Name() string { return s.name }

// Version returns the service version.
func (s ServiceItem) Version() version.Version { return s.version }

// Type returns the service type.
func (s ServiceItem) Type() ServiceType { return s.typ }

// Magic returns the cached fingerprint.
func (s ServiceItem) Magic() uint32 { return s.magic }

// IsValid returns true if the item has a non-reserved UTF-8 name without
// PathSeparator, a valid version and a valid type.
func (s ServiceItem) IsValid() bool { return s.magic != ChecksumIgnore }

// SetName replaces the name and recomputes the fingerprint.
func (s *ServiceItem) SetName(name string) {
	s.name = truncateName(name)
	s.magic = s.computeMagic()
}

// SetVersion replaces the version. The fingerprint only changes if the
// item's validity changes.
func (s *ServiceItem) SetVersion(ver version.Version) {
	s.version = ver
	s.magic = s.computeMagic()
}

// SetType replaces the type and recomputes the fingerprint.
func (s *ServiceItem) SetType(typ ServiceType) {
	s.typ = typ
	s.magic = s.computeMagic()
}

// IsServiceCompatible returns true if both items are valid, share name and
// type, and s's version can serve a consumer of other's version.
func (s ServiceItem) IsServiceCompatible(other ServiceItem) bool {
	return s.IsValid() && s.magic == other.magic && s.version.IsCompatible(other.version)
}

// Equal returns true if name, version and type are identical.
func (s ServiceItem) Equal(other ServiceItem) bool {
	return s.magic == other.magic && s.name == other.name &&
		s.typ == other.typ && s.version.Equal(other.version)
}

// String returns the item path.
func (s ServiceItem) String() string {
	return ConvAddressToPath(s)
}

// ConvAddressToPath returns "name/major.minor.patch/Type".
func ConvAddressToPath(s ServiceItem) string {
	return s.name + PathSeparator + s.version.String() + PathSeparator + s.typ.String()
}

// ConvPathToAddress parses the item at the start of path and returns the
// remainder after the item's trailing separator as nextPart. A malformed
// path yields an invalid item and nextPart equal to path.
func ConvPathToAddress(path string) (item ServiceItem, nextPart string) {
	parts := strings.SplitN(path, PathSeparator, 4)
	if len(parts) < 3 {
		return InvalidServiceItem(), path
	}

	ver, err := version.Parse(parts[1])
	if err != nil {
		return InvalidServiceItem(), path
	}
	typ, err := ParseType(parts[2])
	if err != nil {
		return InvalidServiceItem(), path
	}

	item = NewServiceItem(parts[0], ver, typ)
	if !item.IsValid() {
		return InvalidServiceItem(), path
	}
	if len(parts) == 4 {
		nextPart = parts[3]
	}
	return item, nextPart
}

// serviceItemWire is the streamed form of a ServiceItem.
type serviceItemWire struct {
	_       struct{} `cbor:",toarray"`
	Name    string
	Version version.Version
	Type    ServiceType
}

// MarshalCBOR streams the item as [name, version, type].
func (s ServiceItem) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(serviceItemWire{Name: s.name, Version: s.version, Type: s.typ})
}

// UnmarshalCBOR reads [name, version, type] and recomputes the fingerprint.
func (s *ServiceItem) UnmarshalCBOR(data []byte) error {
	var w serviceItemWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("failed to decode service item: %w", err)
	}
	*s = NewServiceItem(w.Name, w.Version, w.Type)
	return nil
}
