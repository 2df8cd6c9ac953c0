package fat32

import (
	"encoding/binary"

	"github.com/hashicorp/go-multierror"
	"github.com/noxer/bytewriter"
)

// Volume geometry defaults, mirrored from the BPB the original preamble
// builder reaches for when the caller doesn't override them (bpb.rs).
const (
	DefaultBytesPerSector    = 512
	DefaultSectorsPerCluster = 8
	DefaultReservedSectors   = 8
	DefaultFATCount          = 2
	DefaultMedia             = 0xF8
	DefaultSectorsPerTrack   = 32
	DefaultHeads             = 64
	DefaultRootDirCluster    = 2
	DefaultFSInfoSector      = 1
	DefaultBackupBootSector  = 6
	DefaultDriveNumber       = 0x80
)

// Parameters holds the fields of the boot sector's BIOS Parameter Block.
// Build one with NewParameters; the zero value is not usable.
type Parameters struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	FATCount          uint8
	Media             uint8
	SectorsPerTrack   uint16
	Heads             uint16
	HiddenSectors     uint32
	TotalSectors32    uint32
	SectorsPerFAT32   uint32
	ExtendedFlags     uint16
	RootDirCluster    uint32
	FSInfoSector      uint16
	BackupBootSector  uint16
	DriveNumber       uint8
	VolumeID          uint32
	VolumeLabel       [11]byte

	sector [512]byte // the fully rendered boot sector, built once
}

// Option configures a Parameters during NewParameters.
type Option func(*Parameters)

// WithBytesPerSector overrides the default of 512.
func WithBytesPerSector(n uint16) Option {
	return func(p *Parameters) { p.BytesPerSector = n }
}

// WithSectorsPerCluster overrides the default of 8.
func WithSectorsPerCluster(n uint8) Option {
	return func(p *Parameters) { p.SectorsPerCluster = n }
}

// WithVolumeLabel sets the 11-byte volume label, space-padded/truncated.
func WithVolumeLabel(label string) Option {
	return func(p *Parameters) {
		for i := range p.VolumeLabel {
			p.VolumeLabel[i] = ' '
		}
		copy(p.VolumeLabel[:], label)
	}
}

// WithVolumeID overrides the default of 0.
func WithVolumeID(id uint32) Option {
	return func(p *Parameters) { p.VolumeID = id }
}

// BytesPerCluster returns the number of bytes in one cluster.
func (p *Parameters) BytesPerCluster() uint32 {
	return uint32(p.BytesPerSector) * uint32(p.SectorsPerCluster)
}

// NewParameters builds the boot sector parameters for a volume of
// totalSectors sectors, applying opts over the defaults, computing
// SectorsPerFAT32 via defaultSectorsPerFAT, and validating the result. All
// field-level validation errors are collected with go-multierror rather than
// failing fast on the first one, so a caller fixing a broken configuration
// sees every problem in one pass.
func NewParameters(totalSectors uint32, opts ...Option) (*Parameters, error) {
	p := &Parameters{
		BytesPerSector:    DefaultBytesPerSector,
		SectorsPerCluster: DefaultSectorsPerCluster,
		ReservedSectors:   DefaultReservedSectors,
		FATCount:          DefaultFATCount,
		Media:             DefaultMedia,
		SectorsPerTrack:   DefaultSectorsPerTrack,
		Heads:             DefaultHeads,
		TotalSectors32:    totalSectors,
		RootDirCluster:    DefaultRootDirCluster,
		FSInfoSector:      DefaultFSInfoSector,
		BackupBootSector:  DefaultBackupBootSector,
		DriveNumber:       DefaultDriveNumber,
	}
	for i := range p.VolumeLabel {
		p.VolumeLabel[i] = ' '
	}
	for _, opt := range opts {
		opt(p)
	}
	p.SectorsPerFAT32 = defaultSectorsPerFAT(p)

	if err := p.validate(); err != nil {
		return nil, err
	}

	p.render()
	return p, nil
}

func (p *Parameters) validate() error {
	var result *multierror.Error
	switch p.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		result = multierror.Append(result, errInvalidField("BytesPerSector", "must be 512, 1024, 2048, or 4096"))
	}
	if p.SectorsPerCluster == 0 || (p.SectorsPerCluster&(p.SectorsPerCluster-1)) != 0 {
		result = multierror.Append(result, errInvalidField("SectorsPerCluster", "must be a nonzero power of 2"))
	}
	if p.FATCount == 0 {
		result = multierror.Append(result, errInvalidField("FATCount", "must be at least 1"))
	}
	if p.ReservedSectors == 0 {
		result = multierror.Append(result, errInvalidField("ReservedSectors", "must be at least 1"))
	}
	if p.TotalSectors32 == 0 {
		result = multierror.Append(result, errInvalidField("TotalSectors32", "volume must have a nonzero size"))
	}
	return result.ErrorOrNil()
}

// defaultSectorsPerFAT computes the minimum FAT size, in sectors, able to
// hold an entry for every cluster in the data region plus the two reserved
// entries at the head of the table (bpb.rs's default_sectors_per_fat).
func defaultSectorsPerFAT(p *Parameters) uint32 {
	top := p.TotalSectors32 - uint32(p.ReservedSectors) + 2*uint32(p.SectorsPerCluster)
	bottom := uint32(p.FATCount) + p.BytesPerCluster()/4
	return top / bottom
}

// FATStart returns the byte offset of the first File Allocation Table.
func (p *Parameters) FATStart() uint64 {
	return uint64(p.ReservedSectors) * uint64(p.BytesPerSector)
}

// FATEnd returns the byte offset just past the last File Allocation Table.
func (p *Parameters) FATEnd() uint64 {
	return p.FATStart() + uint64(p.FATCount)*uint64(p.SectorsPerFAT32)*uint64(p.BytesPerSector)
}

// DataStart returns the byte offset of the first data-region cluster.
func (p *Parameters) DataStart() uint64 {
	return p.FATEnd()
}

// fat32Label is the ASCII filesystem-type string stamped at the end of the
// boot sector.
var fat32Label = [8]byte{'F', 'A', 'T', '3', '2', ' ', ' ', ' '}

// render builds the full 512-byte boot sector once, up front, using
// bytewriter to present the fixed-size backing array as an io.Writer for
// binary.Write — the same pattern the original driver's format routines use
// to lay out on-disk structures field by field.
func (p *Parameters) render() {
	for i := range p.sector {
		p.sector[i] = 0
	}
	for i := 0; i < 11; i++ {
		p.sector[i] = 'a'
	}

	w := bytewriter.New(p.sector[11:])
	binary.Write(w, binary.LittleEndian, p.BytesPerSector)
	binary.Write(w, binary.LittleEndian, p.SectorsPerCluster)
	binary.Write(w, binary.LittleEndian, p.ReservedSectors)
	binary.Write(w, binary.LittleEndian, p.FATCount)
	binary.Write(w, binary.LittleEndian, [4]byte{}) // FAT16-only fields, zero
	binary.Write(w, binary.LittleEndian, p.Media)
	binary.Write(w, binary.LittleEndian, [2]byte{}) // FAT16-only sectors_per_fat
	binary.Write(w, binary.LittleEndian, p.SectorsPerTrack)
	binary.Write(w, binary.LittleEndian, p.Heads)
	binary.Write(w, binary.LittleEndian, p.HiddenSectors)
	binary.Write(w, binary.LittleEndian, p.TotalSectors32)
	binary.Write(w, binary.LittleEndian, p.SectorsPerFAT32)
	binary.Write(w, binary.LittleEndian, p.ExtendedFlags)
	binary.Write(w, binary.LittleEndian, [2]byte{}) // fs_version, zero
	binary.Write(w, binary.LittleEndian, p.RootDirCluster)
	binary.Write(w, binary.LittleEndian, p.FSInfoSector)
	binary.Write(w, binary.LittleEndian, p.BackupBootSector)
	binary.Write(w, binary.LittleEndian, [12]byte{}) // reserved
	binary.Write(w, binary.LittleEndian, p.DriveNumber)
	binary.Write(w, binary.LittleEndian, byte(0)) // reserved
	binary.Write(w, binary.LittleEndian, byte(0x29))
	binary.Write(w, binary.LittleEndian, p.VolumeID)
	binary.Write(w, binary.LittleEndian, p.VolumeLabel)
	binary.Write(w, binary.LittleEndian, fat32Label)

	p.sector[510] = 0x55
	p.sector[511] = 0xAA
}

// ByteAt returns byte idx (0-511) of the rendered boot sector.
func (p *Parameters) ByteAt(idx int) byte {
	if idx < 0 || idx >= len(p.sector) {
		return 0
	}
	return p.sector[idx]
}

func errInvalidField(field, reason string) error {
	return &fieldError{field: field, reason: reason}
}

type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string {
	return e.field + ": " + e.reason
}
