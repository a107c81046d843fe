// Package report decodes raw CAPE sandbox analysis reports into a
// strongly typed object graph. The report format is large, deeply
// nested, and drifts between sandbox versions; every record here is
// decoded strictly, so a key the schema does not claim fails the
// decode instead of being dropped. Instances are only ever produced by
// Decode and are not mutated afterwards.
package report

import "sort"

// OneOrMany holds a field that some sandbox versions emit as a single
// string and others as a list of strings. Whichever shape the input
// used is the shape that is kept.
type OneOrMany struct {
	One  *string
	Many []string
}

// Values flattens either shape into a slice for callers that do not
// care which form the input took.
func (v OneOrMany) Values() []string {
	if v.One != nil {
		return []string{*v.One}
	}
	return v.Many
}

// ImportTable holds the PE import table in whichever of its two wire
// shapes the report used: a sequence of per-DLL groups, or a mapping
// from DLL base name to the same group shape. Exactly one of the two
// is populated.
type ImportTable struct {
	DLLs   []ImportedDLL
	ByName map[string]ImportedDLL
}

// Entries flattens either shape into the per-DLL groups. Mapping
// entries come out sorted by DLL name so the result is stable.
func (t ImportTable) Entries() []ImportedDLL {
	if t.ByName == nil {
		return t.DLLs
	}
	entries := make([]ImportedDLL, 0, len(t.ByName))
	for _, dll := range t.ByName {
		entries = append(entries, dll)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].DLL < entries[j].DLL })
	return entries
}

type ImportedSymbol struct {
	Address uint64
	Name    string
}

type ImportedDLL struct {
	DLL     string
	Imports []ImportedSymbol
}

type DirectoryEntry struct {
	Name           string
	VirtualAddress uint64
	Size           uint64
}

type Section struct {
	Name               string
	RawAddress         uint64
	VirtualAddress     uint64
	VirtualSize        uint64
	SizeOfData         uint64
	Characteristics    string
	CharacteristicsRaw uint64
	Entropy            float64
}

// Signer is the guest-side signature block, empty by default in every
// observed report; the aux_sha1/aux_timestamp/aux_signers members are
// canaries.
type Signer struct {
	AuxValid     *bool
	AuxError     *bool
	AuxErrorDesc *string
}

type Resource struct {
	Name        string
	Language    string
	Sublanguage string
	Filetype    *string
	Offset      uint64
	Size        uint64
	Entropy     float64
}

type Overlay struct {
	Offset uint64
	Size   uint64
}

// PE is the static PE structural metadata attached to a file record.
type PE struct {
	ImageBase        uint64
	EntryPoint       uint64
	ReportedChecksum uint64
	ActualChecksum   uint64
	OSVersion        string
	PDBPath          *string
	Timestamp        string

	Imports          ImportTable
	ImportedDLLCount int
	Imphash          string

	ExportedDLLName *string

	DirEnts  []DirectoryEntry
	Sections []Section

	EPBytes []byte

	Overlay   *Overlay
	Resources []Resource

	GuestSigners Signer
}

// File is the hash set and static metadata of one file the sandbox
// touched: the submitted sample, a dropped file, or an extracted
// payload. Hash values stay in their canonical lowercase-hex string
// form; nothing downstream wants them as integers.
type File struct {
	Type         string
	CapeTypeCode *int
	CapeType     *string

	Name       OneOrMany
	Path       string
	GuestPaths OneOrMany
	Timestamp  *string

	CRC32   string
	MD5     string
	SHA1    string
	SHA256  string
	SHA512  string
	SHA3384 string
	SSDeep  string
	TLSH    string
	RHHash  *string

	Size       int64
	PE         *PE
	EPBytes    []byte
	Entrypoint *int64
	Data       *string
	Strings    []string
}

// ProcessFile is a File captured out of a running process, carrying
// the process identifiers and target-process linkage alongside every
// File field. Plain field composition; nothing treats a ProcessFile
// as a File polymorphically.
type ProcessFile struct {
	File

	PID            int
	ProcessPath    string
	ProcessName    string
	ModulePath     string
	VirtualAddress *uint64
	TargetPID      *int
	TargetPath     *string
	TargetProcess  *string
}

// ArgumentValue is an API call argument value: a hex-encoded integer
// in some reports, a plain string in others. Exactly one side is set.
type ArgumentValue struct {
	Int *uint64
	Str *string
}

type Argument struct {
	Name        string
	Value       ArgumentValue
	PrettyValue *string
}

// Call is one monitored API call inside a process trace.
type Call struct {
	Timestamp string
	ThreadID  int
	Category  string

	API string

	Arguments    []Argument
	Status       bool
	Return       uint64
	PrettyReturn *string

	Repeated int

	// virtual addresses
	Caller       uint64
	ParentCaller uint64

	// index into the owning process's call list; stable and unique
	// within that list
	ID int
}

type Process struct {
	ProcessID   int
	ProcessName string
	ParentID    int
	ModulePath  string
	FirstSeen   string
	Calls       []Call
	Threads     []int
	Environ     map[string]string
}

// ProcessTree is one node of the recursive process tree. Children are
// owned exclusively by their parent; the structure is a strict tree.
type ProcessTree struct {
	Name       string
	PID        int
	ParentID   int
	ModulePath string
	Threads    []int
	Environ    map[string]string
	Children   []ProcessTree
}

type FileEventData struct {
	File          string
	PathToFile    *string
	ModuleAddress *uint64
}

type RegistryEventData struct {
	Key     string
	Content *string
}

type MoveEventData struct {
	From *string
	To   *string
}

// EventData is the payload of an enhanced event, one of three
// mutually exclusive shapes discriminated by which keys the object
// carries. Exactly one member is non-nil.
type EventData struct {
	File     *FileEventData
	Registry *RegistryEventData
	Move     *MoveEventData
}

type EnhancedEvent struct {
	Event     string
	Object    string
	Timestamp string
	EID       int
	Data      EventData
}

// Summary is the deduplicated roll-up of everything the sample
// touched during execution.
type Summary struct {
	Files       []string
	ReadFiles   []string
	WriteFiles  []string
	DeleteFiles []string

	Keys       []string
	ReadKeys   []string
	WriteKeys  []string
	DeleteKeys []string

	ExecutedCommands []string
	ResolvedAPIs     []string
	Mutexes          []string
	CreatedServices  []string
	StartedServices  []string
}

// Behavior is the dynamic execution trace: the summary, the flat
// process/call list, the process tree, and enhanced events.
type Behavior struct {
	Summary Summary

	Processes   []Process
	ProcessTree []ProcessTree

	Anomaly  []string
	Enhanced []EnhancedEvent
}

type Host struct {
	IP          string
	CountryName string
	Hostname    string
	InAddrArpa  string
}

type Domain struct {
	Domain string
	IP     string
}

type TCPEvent struct {
	Src    string
	SPort  int
	Dst    string
	DPort  int
	Offset int
	Time   float64
}

type UDPEvent struct {
	Src    string
	SPort  int
	Dst    string
	DPort  int
	Offset int
	Time   float64
}

type DNSEvent struct {
	Request string
	Type    string
}

type ICMPEvent struct {
	Src  string
	Dst  string
	Type int
	Data string
}

type DeadHost struct {
	Host string
	Port int
}

// Network is the pcap-derived telemetry. Every list is optional; the
// http/smtp/irc rows and lookup tables are canaries, and dead hosts
// arrive as [address, port] pairs.
type Network struct {
	PcapSHA256 *string
	Hosts      []Host
	Domains    []Domain
	TCP        []TCPEvent
	UDP        []UDPEvent
	ICMP       []ICMPEvent
	DNS        []DNSEvent
	DeadHosts  []DeadHost
}

type SuricataDNSEvent struct {
	ID     int
	Type   string
	RRName string
	RRType string
	TxID   int
}

type SuricataNetworkEntry struct {
	Timestamp string
	EventType string
	Proto     string

	FlowID  int
	PcapCnt int

	SrcIP   string
	SrcPort int

	DestIP   string
	DestPort int

	DNS *SuricataDNSEvent
}

// Suricata holds the Suricata IDS rows. Only the DNS entries are
// modeled; alerts/fileinfo/files/http/perf/ssh/tls are canaries and
// the log-path fields are opaque.
type Suricata struct {
	DNS []SuricataNetworkEntry
}

// Signature is one sandbox signature match with its free-form
// evidence entries.
type Signature struct {
	Alert       bool
	Confidence  int
	Data        []map[string]interface{}
	Description string
	Families    []string
	Name        string
	References  []string
	Severity    int
	Weight      int
}

// Target is the analyzed file and its submission category.
type Target struct {
	Category string
	File     File
}

// Static holds the static-analysis results for the sample.
type Static struct {
	PE PE
}

// CAPE holds the post-processing results: extracted payloads (and,
// once the shape is known, extracted configs — currently a canary).
type CAPE struct {
	Payloads []ProcessFile
}

// Report is the decoded root of one sandbox analysis run.
type Report struct {
	Target Target

	// static analysis results
	Static  *Static
	Strings []string

	// dynamic analysis results
	Behavior Behavior
	CAPE     CAPE

	Network  Network
	Suricata Suricata
	Dropped  []File
	Procdump []ProcessFile

	// detection summary
	Signatures      []Signature
	MalfamilyTag    *string
	Malscore        float64
	Detections      *string
	DetectionsToPID map[int][]string
}
