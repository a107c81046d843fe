package report

import (
	"strconv"

	"capereport/strictjson"
)

// Field tables for every report entity, composed depth-first. Each
// table claims exactly the keys the upstream format is known to emit;
// unknown keys, missing keys, and populated canaries all fail the
// decode with a full path. Field order matters only where a OneOf
// lists its variants.

// into adapts a value decoder into a destination-binding Func.
func into[T any](dst *T, dec func(interface{}) (T, error)) strictjson.Func {
	return func(v interface{}) error {
		t, err := dec(v)
		if err != nil {
			return err
		}
		*dst = t
		return nil
	}
}

// intoPtr is into for nullable/optional compound fields.
func intoPtr[T any](dst **T, dec func(interface{}) (T, error)) strictjson.Func {
	return func(v interface{}) error {
		if v == nil {
			return nil
		}
		t, err := dec(v)
		if err != nil {
			return err
		}
		*dst = &t
		return nil
	}
}

func stringsValue(v interface{}) ([]string, error) {
	var out []string
	err := strictjson.List(&out, strictjson.StringValue)(v)
	return out, err
}

// oneOrMany resolves the single-string-or-list-of-strings shape split
// (file names, guest paths). List form is probed first.
func oneOrMany(dst *OneOrMany, nullable bool) strictjson.Func {
	variants := []strictjson.Variant{
		{Shape: "array of strings", Probe: strictjson.IsArray,
			Decode: strictjson.List(&dst.Many, strictjson.StringValue)},
		{Shape: "string", Probe: strictjson.IsString, Decode: func(v interface{}) error {
			s, err := strictjson.StringValue(v)
			if err != nil {
				return err
			}
			dst.One = &s
			return nil
		}},
	}
	if nullable {
		variants = append(variants, strictjson.Variant{
			Shape: "null", Probe: strictjson.IsNull,
			Decode: func(interface{}) error { return nil },
		})
	}
	return strictjson.OneOf(variants...)
}

func decodeImportedSymbol(v interface{}) (ImportedSymbol, error) {
	var s ImportedSymbol
	err := strictjson.Object(v,
		strictjson.Req("address", strictjson.HexInt(&s.Address)),
		strictjson.Req("name", strictjson.String(&s.Name)),
	)
	return s, err
}

func decodeImportedDLL(v interface{}) (ImportedDLL, error) {
	var d ImportedDLL
	err := strictjson.Object(v,
		strictjson.Req("dll", strictjson.String(&d.DLL)),
		strictjson.Req("imports", strictjson.List(&d.Imports, decodeImportedSymbol)),
	)
	return d, err
}

func decodeDirectoryEntry(v interface{}) (DirectoryEntry, error) {
	var d DirectoryEntry
	err := strictjson.Object(v,
		strictjson.Req("name", strictjson.String(&d.Name)),
		strictjson.Req("virtual_address", strictjson.HexInt(&d.VirtualAddress)),
		strictjson.Req("size", strictjson.HexInt(&d.Size)),
	)
	return d, err
}

func decodeSection(v interface{}) (Section, error) {
	var s Section
	err := strictjson.Object(v,
		strictjson.Req("name", strictjson.String(&s.Name)),
		strictjson.Req("raw_address", strictjson.HexInt(&s.RawAddress)),
		strictjson.Req("virtual_address", strictjson.HexInt(&s.VirtualAddress)),
		strictjson.Req("virtual_size", strictjson.HexInt(&s.VirtualSize)),
		strictjson.Req("size_of_data", strictjson.HexInt(&s.SizeOfData)),
		strictjson.Req("characteristics", strictjson.String(&s.Characteristics)),
		strictjson.Req("characteristics_raw", strictjson.HexInt(&s.CharacteristicsRaw)),
		strictjson.Req("entropy", strictjson.Float(&s.Entropy)),
	)
	return s, err
}

func decodeSigner(v interface{}) (Signer, error) {
	var s Signer
	err := strictjson.Object(v,
		strictjson.Opt("aux_sha1", strictjson.Canary),
		strictjson.Opt("aux_timestamp", strictjson.Canary),
		strictjson.Opt("aux_valid", strictjson.BoolPtr(&s.AuxValid)),
		strictjson.Opt("aux_error", strictjson.BoolPtr(&s.AuxError)),
		strictjson.Opt("aux_error_desc", strictjson.StringPtr(&s.AuxErrorDesc)),
		strictjson.Opt("aux_signers", strictjson.CanaryList),
	)
	return s, err
}

func decodeResource(v interface{}) (Resource, error) {
	var r Resource
	err := strictjson.Object(v,
		strictjson.Req("name", strictjson.String(&r.Name)),
		strictjson.Req("language", strictjson.String(&r.Language)),
		strictjson.Req("sublanguage", strictjson.String(&r.Sublanguage)),
		strictjson.Req("filetype", strictjson.StringPtr(&r.Filetype)),
		strictjson.Req("offset", strictjson.HexInt(&r.Offset)),
		strictjson.Req("size", strictjson.HexInt(&r.Size)),
		strictjson.Req("entropy", strictjson.Float(&r.Entropy)),
	)
	return r, err
}

func decodeOverlay(v interface{}) (Overlay, error) {
	var o Overlay
	err := strictjson.Object(v,
		strictjson.Req("offset", strictjson.HexInt(&o.Offset)),
		strictjson.Req("size", strictjson.HexInt(&o.Size)),
	)
	return o, err
}

func decodePE(v interface{}) (PE, error) {
	var pe PE
	err := strictjson.Object(v,
		strictjson.Req("peid_signatures", strictjson.Canary),
		strictjson.Req("imagebase", strictjson.HexInt(&pe.ImageBase)),
		strictjson.Req("entrypoint", strictjson.HexInt(&pe.EntryPoint)),
		strictjson.Req("reported_checksum", strictjson.HexInt(&pe.ReportedChecksum)),
		strictjson.Req("actual_checksum", strictjson.HexInt(&pe.ActualChecksum)),
		strictjson.Req("osversion", strictjson.String(&pe.OSVersion)),
		strictjson.Opt("pdbpath", strictjson.StringPtr(&pe.PDBPath)),
		strictjson.Req("timestamp", strictjson.String(&pe.Timestamp)),

		// sequence of per-DLL groups in some versions, mapping of
		// DLL base name to group in others
		strictjson.Req("imports", strictjson.OneOf(
			strictjson.Variant{Shape: "array of import groups", Probe: strictjson.IsArray,
				Decode: strictjson.List(&pe.Imports.DLLs, decodeImportedDLL)},
			strictjson.Variant{Shape: "mapping of dll name to import group", Probe: strictjson.IsObject,
				Decode: strictjson.MapOf(&pe.Imports.ByName, decodeImportedDLL)},
		)),
		strictjson.Req("imported_dll_count", strictjson.Int(&pe.ImportedDLLCount)),
		strictjson.Req("imphash", strictjson.String(&pe.Imphash)),

		strictjson.Opt("exported_dll_name", strictjson.StringPtr(&pe.ExportedDLLName)),
		strictjson.Req("exports", strictjson.CanaryList),

		strictjson.Req("dirents", strictjson.List(&pe.DirEnts, decodeDirectoryEntry)),
		strictjson.Req("sections", strictjson.List(&pe.Sections, decodeSection)),

		strictjson.Opt("ep_bytes", strictjson.HexBytes(&pe.EPBytes)),

		strictjson.Opt("overlay", intoPtr(&pe.Overlay, decodeOverlay)),
		strictjson.Req("resources", strictjson.List(&pe.Resources, decodeResource)),
		strictjson.Req("icon", strictjson.Canary),
		strictjson.Req("icon_hash", strictjson.Canary),
		strictjson.Req("icon_fuzzy", strictjson.Canary),
		strictjson.Opt("icon_dhash", strictjson.Canary),
		strictjson.Req("versioninfo", strictjson.CanaryList),

		strictjson.Req("digital_signers", strictjson.CanaryList),
		strictjson.Req("guest_signers", into(&pe.GuestSigners, decodeSigner)),
	)
	return pe, err
}

// fileFields is shared between File records and the process-linked
// records that carry every File field plus their own.
func fileFields(f *File) []strictjson.Field {
	return []strictjson.Field{
		strictjson.Req("type", strictjson.String(&f.Type)),
		strictjson.Opt("cape_type_code", strictjson.IntPtr(&f.CapeTypeCode)),
		strictjson.Opt("cape_type", strictjson.StringPtr(&f.CapeType)),

		strictjson.Req("name", oneOrMany(&f.Name, false)),
		strictjson.Req("path", strictjson.String(&f.Path)),
		strictjson.Req("guest_paths", oneOrMany(&f.GuestPaths, true)),
		strictjson.Opt("timestamp", strictjson.StringPtr(&f.Timestamp)),

		// hashes stay as canonical lowercase hex strings
		strictjson.Req("crc32", strictjson.String(&f.CRC32)),
		strictjson.Req("md5", strictjson.String(&f.MD5)),
		strictjson.Req("sha1", strictjson.String(&f.SHA1)),
		strictjson.Req("sha256", strictjson.String(&f.SHA256)),
		strictjson.Req("sha512", strictjson.String(&f.SHA512)),
		strictjson.Req("sha3_384", strictjson.String(&f.SHA3384)),
		strictjson.Req("ssdeep", strictjson.String(&f.SSDeep)),
		strictjson.Req("tlsh", strictjson.String(&f.TLSH)),
		strictjson.Opt("rh_hash", strictjson.StringPtr(&f.RHHash)),

		strictjson.Req("size", strictjson.Int64(&f.Size)),
		strictjson.Opt("pe", intoPtr(&f.PE, decodePE)),
		strictjson.Opt("ep_bytes", strictjson.HexBytes(&f.EPBytes)),
		strictjson.Opt("entrypoint", strictjson.Int64Ptr(&f.Entrypoint)),
		strictjson.Opt("data", strictjson.StringPtr(&f.Data)),
		strictjson.Opt("strings", strictjson.List(&f.Strings, strictjson.StringValue)),

		// per-sample detections, never consumed downstream
		strictjson.Opt("yara", strictjson.Opaque),
		strictjson.Opt("cape_yara", strictjson.Opaque),
		strictjson.Opt("clamav", strictjson.Opaque),
		strictjson.Opt("virustotal", strictjson.Opaque),
	}
}

func decodeFile(v interface{}) (File, error) {
	var f File
	err := strictjson.Object(v, fileFields(&f)...)
	return f, err
}

func decodeProcessFile(v interface{}) (ProcessFile, error) {
	var f ProcessFile
	fields := append(fileFields(&f.File),
		strictjson.Req("pid", strictjson.Int(&f.PID)),
		strictjson.Req("process_path", strictjson.String(&f.ProcessPath)),
		strictjson.Req("process_name", strictjson.String(&f.ProcessName)),
		strictjson.Req("module_path", strictjson.String(&f.ModulePath)),
		strictjson.Opt("virtual_address", strictjson.HexIntPtr(&f.VirtualAddress)),
		strictjson.Opt("target_pid", strictjson.IntPtr(&f.TargetPID)),
		strictjson.Opt("target_path", strictjson.StringPtr(&f.TargetPath)),
		strictjson.Opt("target_process", strictjson.StringPtr(&f.TargetProcess)),
	)
	err := strictjson.Object(v, fields...)
	return f, err
}

func decodeArgument(v interface{}) (Argument, error) {
	var a Argument
	err := strictjson.Object(v,
		strictjson.Req("name", strictjson.String(&a.Name)),
		// hex-encoded integer first; wider or non-hex strings fall
		// through to the plain-string variant
		strictjson.Req("value", strictjson.OneOf(
			strictjson.Variant{Shape: "hex-encoded integer", Probe: strictjson.IsHexInt,
				Decode: strictjson.HexIntPtr(&a.Value.Int)},
			strictjson.Variant{Shape: "string", Probe: strictjson.IsString,
				Decode: strictjson.StringPtr(&a.Value.Str)},
		)),
		strictjson.Opt("pretty_value", strictjson.StringPtr(&a.PrettyValue)),
	)
	return a, err
}

func decodeCall(v interface{}) (Call, error) {
	var c Call
	err := strictjson.Object(v,
		strictjson.Req("timestamp", strictjson.String(&c.Timestamp)),
		strictjson.Req("thread_id", strictjson.Int(&c.ThreadID)),
		strictjson.Req("category", strictjson.String(&c.Category)),

		strictjson.Req("api", strictjson.String(&c.API)),

		strictjson.Req("arguments", strictjson.List(&c.Arguments, decodeArgument)),
		strictjson.Req("status", strictjson.Bool(&c.Status)),
		strictjson.ReqAs("return_value", "return", strictjson.HexInt(&c.Return)),
		strictjson.Opt("pretty_return", strictjson.StringPtr(&c.PrettyReturn)),

		strictjson.Req("repeated", strictjson.Int(&c.Repeated)),

		strictjson.Req("caller", strictjson.HexInt(&c.Caller)),
		strictjson.Req("parentcaller", strictjson.HexInt(&c.ParentCaller)),

		strictjson.Req("id", strictjson.Int(&c.ID)),
	)
	return c, err
}

func decodeProcess(v interface{}) (Process, error) {
	var p Process
	err := strictjson.Object(v,
		strictjson.Req("process_id", strictjson.Int(&p.ProcessID)),
		strictjson.Req("process_name", strictjson.String(&p.ProcessName)),
		strictjson.Req("parent_id", strictjson.Int(&p.ParentID)),
		strictjson.Req("module_path", strictjson.String(&p.ModulePath)),
		strictjson.Req("first_seen", strictjson.String(&p.FirstSeen)),
		strictjson.Req("calls", strictjson.List(&p.Calls, decodeCall)),
		strictjson.Req("threads", strictjson.List(&p.Threads, strictjson.IntValue)),
		strictjson.Req("environ", strictjson.MapOf(&p.Environ, strictjson.StringValue)),
	)
	return p, err
}

// decodeProcessTree decodes children depth-first before the parent
// node is complete. The input is a strict tree; there is no back
// reference a cycle could travel through.
func decodeProcessTree(v interface{}) (ProcessTree, error) {
	var t ProcessTree
	err := strictjson.Object(v,
		strictjson.Req("name", strictjson.String(&t.Name)),
		strictjson.Req("pid", strictjson.Int(&t.PID)),
		strictjson.Req("parent_id", strictjson.Int(&t.ParentID)),
		strictjson.Req("module_path", strictjson.String(&t.ModulePath)),
		strictjson.Req("threads", strictjson.List(&t.Threads, strictjson.IntValue)),
		strictjson.Req("environ", strictjson.MapOf(&t.Environ, strictjson.StringValue)),
		strictjson.Req("children", strictjson.List(&t.Children, decodeProcessTree)),
	)
	return t, err
}

func decodeFileEventData(v interface{}) (FileEventData, error) {
	var d FileEventData
	err := strictjson.Object(v,
		strictjson.Req("file", strictjson.String(&d.File)),
		strictjson.Opt("pathtofile", strictjson.StringPtr(&d.PathToFile)),
		strictjson.Opt("moduleaddress", strictjson.HexIntPtr(&d.ModuleAddress)),
	)
	return d, err
}

func decodeRegistryEventData(v interface{}) (RegistryEventData, error) {
	var d RegistryEventData
	err := strictjson.Object(v,
		strictjson.Req("regkey", strictjson.String(&d.Key)),
		strictjson.Opt("content", strictjson.StringPtr(&d.Content)),
	)
	return d, err
}

func decodeMoveEventData(v interface{}) (MoveEventData, error) {
	var d MoveEventData
	err := strictjson.Object(v,
		strictjson.ReqAs("from_path", "from", strictjson.StringPtr(&d.From)),
		strictjson.Opt("to", strictjson.StringPtr(&d.To)),
	)
	return d, err
}

func decodeEnhancedEvent(v interface{}) (EnhancedEvent, error) {
	var e EnhancedEvent
	err := strictjson.Object(v,
		strictjson.Req("event", strictjson.String(&e.Event)),
		strictjson.Req("object", strictjson.String(&e.Object)),
		strictjson.Req("timestamp", strictjson.String(&e.Timestamp)),
		strictjson.Req("eid", strictjson.Int(&e.EID)),
		// disambiguated by which required key the payload carries
		strictjson.Req("data", strictjson.OneOf(
			strictjson.Variant{Shape: "file event", Probe: strictjson.HasKey("file"),
				Decode: intoPtr(&e.Data.File, decodeFileEventData)},
			strictjson.Variant{Shape: "registry event", Probe: strictjson.HasKey("regkey"),
				Decode: intoPtr(&e.Data.Registry, decodeRegistryEventData)},
			strictjson.Variant{Shape: "move event", Probe: strictjson.HasKey("from"),
				Decode: intoPtr(&e.Data.Move, decodeMoveEventData)},
		)),
	)
	return e, err
}

func decodeSummary(v interface{}) (Summary, error) {
	var s Summary
	err := strictjson.Object(v,
		strictjson.Req("files", strictjson.List(&s.Files, strictjson.StringValue)),
		strictjson.Req("read_files", strictjson.List(&s.ReadFiles, strictjson.StringValue)),
		strictjson.Req("write_files", strictjson.List(&s.WriteFiles, strictjson.StringValue)),
		strictjson.Req("delete_files", strictjson.List(&s.DeleteFiles, strictjson.StringValue)),
		strictjson.Req("keys", strictjson.List(&s.Keys, strictjson.StringValue)),
		strictjson.Req("read_keys", strictjson.List(&s.ReadKeys, strictjson.StringValue)),
		strictjson.Req("write_keys", strictjson.List(&s.WriteKeys, strictjson.StringValue)),
		strictjson.Req("delete_keys", strictjson.List(&s.DeleteKeys, strictjson.StringValue)),
		strictjson.Req("executed_commands", strictjson.List(&s.ExecutedCommands, strictjson.StringValue)),
		strictjson.Req("resolved_apis", strictjson.List(&s.ResolvedAPIs, strictjson.StringValue)),
		strictjson.Req("mutexes", strictjson.List(&s.Mutexes, strictjson.StringValue)),
		strictjson.Req("created_services", strictjson.List(&s.CreatedServices, strictjson.StringValue)),
		strictjson.Req("started_services", strictjson.List(&s.StartedServices, strictjson.StringValue)),
	)
	return s, err
}

func decodeBehavior(v interface{}) (Behavior, error) {
	var b Behavior
	err := strictjson.Object(v,
		strictjson.Req("summary", into(&b.Summary, decodeSummary)),
		strictjson.Req("processes", strictjson.List(&b.Processes, decodeProcess)),
		strictjson.Req("processtree", strictjson.List(&b.ProcessTree, decodeProcessTree)),
		strictjson.Req("anomaly", strictjson.List(&b.Anomaly, strictjson.StringValue)),
		strictjson.Req("enhanced", strictjson.List(&b.Enhanced, decodeEnhancedEvent)),
		strictjson.Req("encryptedbuffers", strictjson.CanaryList),
	)
	return b, err
}

func decodeHost(v interface{}) (Host, error) {
	var h Host
	err := strictjson.Object(v,
		strictjson.Req("ip", strictjson.String(&h.IP)),
		strictjson.Req("country_name", strictjson.String(&h.CountryName)),
		strictjson.Req("hostname", strictjson.String(&h.Hostname)),
		strictjson.Req("inaddrarpa", strictjson.String(&h.InAddrArpa)),
	)
	return h, err
}

func decodeDomain(v interface{}) (Domain, error) {
	var d Domain
	err := strictjson.Object(v,
		strictjson.Req("domain", strictjson.String(&d.Domain)),
		strictjson.Req("ip", strictjson.String(&d.IP)),
	)
	return d, err
}

func decodeTCPEvent(v interface{}) (TCPEvent, error) {
	var e TCPEvent
	err := strictjson.Object(v,
		strictjson.Req("src", strictjson.String(&e.Src)),
		strictjson.Req("sport", strictjson.Int(&e.SPort)),
		strictjson.Req("dst", strictjson.String(&e.Dst)),
		strictjson.Req("dport", strictjson.Int(&e.DPort)),
		strictjson.Req("offset", strictjson.Int(&e.Offset)),
		strictjson.Req("time", strictjson.Float(&e.Time)),
	)
	return e, err
}

func decodeUDPEvent(v interface{}) (UDPEvent, error) {
	var e UDPEvent
	err := strictjson.Object(v,
		strictjson.Req("src", strictjson.String(&e.Src)),
		strictjson.Req("sport", strictjson.Int(&e.SPort)),
		strictjson.Req("dst", strictjson.String(&e.Dst)),
		strictjson.Req("dport", strictjson.Int(&e.DPort)),
		strictjson.Req("offset", strictjson.Int(&e.Offset)),
		strictjson.Req("time", strictjson.Float(&e.Time)),
	)
	return e, err
}

func decodeDNSEvent(v interface{}) (DNSEvent, error) {
	var e DNSEvent
	err := strictjson.Object(v,
		strictjson.Req("request", strictjson.String(&e.Request)),
		strictjson.Req("type", strictjson.String(&e.Type)),
		strictjson.Req("answers", strictjson.CanaryList),
	)
	return e, err
}

func decodeICMPEvent(v interface{}) (ICMPEvent, error) {
	var e ICMPEvent
	err := strictjson.Object(v,
		strictjson.Req("src", strictjson.String(&e.Src)),
		strictjson.Req("dst", strictjson.String(&e.Dst)),
		strictjson.Req("type", strictjson.Int(&e.Type)),
		strictjson.Req("data", strictjson.String(&e.Data)),
	)
	return e, err
}

// decodeDeadHost decodes the [address, port] pair shape.
func decodeDeadHost(v interface{}) (DeadHost, error) {
	var d DeadHost
	arr, ok := v.([]interface{})
	if !ok || len(arr) != 2 {
		return d, strictjson.ShapeError("expected [address, port] pair, got %s", shapeOf(v))
	}
	host, err := strictjson.StringValue(arr[0])
	if err != nil {
		return d, strictjson.AtIndex(err, 0)
	}
	port, err := strictjson.IntValue(arr[1])
	if err != nil {
		return d, strictjson.AtIndex(err, 1)
	}
	d.Host = host
	d.Port = port
	return d, nil
}

func shapeOf(v interface{}) string {
	if arr, ok := v.([]interface{}); ok {
		return "array of " + strconv.Itoa(len(arr))
	}
	return "non-array"
}

func decodeNetwork(v interface{}) (Network, error) {
	var n Network
	err := strictjson.Object(v,
		strictjson.Opt("pcap_sha256", strictjson.StringPtr(&n.PcapSHA256)),
		strictjson.Opt("hosts", strictjson.List(&n.Hosts, decodeHost)),
		strictjson.Opt("domains", strictjson.List(&n.Domains, decodeDomain)),
		strictjson.Opt("tcp", strictjson.List(&n.TCP, decodeTCPEvent)),
		strictjson.Opt("udp", strictjson.List(&n.UDP, decodeUDPEvent)),
		strictjson.Opt("icmp", strictjson.List(&n.ICMP, decodeICMPEvent)),
		strictjson.Opt("http", strictjson.CanaryList),
		strictjson.Opt("dns", strictjson.List(&n.DNS, decodeDNSEvent)),
		strictjson.Opt("smtp", strictjson.CanaryList),
		strictjson.Opt("irc", strictjson.CanaryList),
		strictjson.Opt("domainlookups", strictjson.CanaryObject),
		strictjson.Opt("iplookups", strictjson.CanaryObject),
		strictjson.Opt("http_ex", strictjson.CanaryList),
		strictjson.Opt("https_ex", strictjson.CanaryList),
		strictjson.Opt("smtp_ex", strictjson.CanaryList),
		strictjson.Opt("dead_hosts", strictjson.List(&n.DeadHosts, decodeDeadHost)),
	)
	return n, err
}

func decodeSuricataDNSEvent(v interface{}) (SuricataDNSEvent, error) {
	var e SuricataDNSEvent
	err := strictjson.Object(v,
		strictjson.Req("id", strictjson.Int(&e.ID)),
		strictjson.Req("type", strictjson.String(&e.Type)),
		strictjson.Req("rrname", strictjson.String(&e.RRName)),
		strictjson.Req("rrtype", strictjson.String(&e.RRType)),
		strictjson.Req("tx_id", strictjson.Int(&e.TxID)),
	)
	return e, err
}

func decodeSuricataNetworkEntry(v interface{}) (SuricataNetworkEntry, error) {
	var e SuricataNetworkEntry
	err := strictjson.Object(v,
		strictjson.Req("timestamp", strictjson.String(&e.Timestamp)),
		strictjson.Req("event_type", strictjson.String(&e.EventType)),
		strictjson.Req("proto", strictjson.String(&e.Proto)),

		strictjson.Req("flow_id", strictjson.Int(&e.FlowID)),
		strictjson.Req("pcap_cnt", strictjson.Int(&e.PcapCnt)),

		strictjson.Req("src_ip", strictjson.String(&e.SrcIP)),
		strictjson.Req("src_port", strictjson.Int(&e.SrcPort)),

		strictjson.Req("dest_ip", strictjson.String(&e.DestIP)),
		strictjson.Req("dest_port", strictjson.Int(&e.DestPort)),

		strictjson.Req("dns", intoPtr(&e.DNS, decodeSuricataDNSEvent)),
	)
	return e, err
}

func decodeSuricata(v interface{}) (Suricata, error) {
	var s Suricata
	err := strictjson.Object(v,
		strictjson.Req("alerts", strictjson.CanaryList),
		strictjson.Req("dns", strictjson.List(&s.DNS, decodeSuricataNetworkEntry)),
		strictjson.Req("fileinfo", strictjson.CanaryList),
		strictjson.Req("files", strictjson.CanaryList),
		strictjson.Req("http", strictjson.CanaryList),
		strictjson.Req("perf", strictjson.CanaryList),
		strictjson.Req("ssh", strictjson.CanaryList),
		strictjson.Req("tls", strictjson.CanaryList),

		// paths to sandbox-side log files
		strictjson.Opt("alert_log_full_path", strictjson.Opaque),
		strictjson.Opt("dns_log_full_path", strictjson.Opaque),
		strictjson.Opt("eve_log_full_path", strictjson.Opaque),
		strictjson.Opt("file_log_full_path", strictjson.Opaque),
		strictjson.Opt("http_log_full_path", strictjson.Opaque),
		strictjson.Opt("ssh_log_full_path", strictjson.Opaque),
		strictjson.Opt("tls_log_full_path", strictjson.Opaque),
	)
	return s, err
}

func decodeSignature(v interface{}) (Signature, error) {
	var s Signature
	err := strictjson.Object(v,
		strictjson.Req("alert", strictjson.Bool(&s.Alert)),
		strictjson.Req("confidence", strictjson.Int(&s.Confidence)),
		strictjson.Req("data", strictjson.List(&s.Data, strictjson.RawObjectValue)),
		strictjson.Req("description", strictjson.String(&s.Description)),
		strictjson.Req("families", strictjson.List(&s.Families, strictjson.StringValue)),
		strictjson.Req("name", strictjson.String(&s.Name)),
		strictjson.Req("new_data", strictjson.CanaryList),
		strictjson.Req("references", strictjson.List(&s.References, strictjson.StringValue)),
		strictjson.Req("severity", strictjson.Int(&s.Severity)),
		strictjson.Req("weight", strictjson.Int(&s.Weight)),
	)
	return s, err
}

func decodeTarget(v interface{}) (Target, error) {
	var t Target
	err := strictjson.Object(v,
		strictjson.Req("category", strictjson.String(&t.Category)),
		strictjson.Req("file", into(&t.File, decodeFile)),
	)
	return t, err
}

func decodeStatic(v interface{}) (Static, error) {
	var s Static
	err := strictjson.Object(v,
		strictjson.Req("pe", into(&s.PE, decodePE)),
		strictjson.Opt("flare_capa", strictjson.Opaque),
	)
	return s, err
}

func decodeCAPE(v interface{}) (CAPE, error) {
	var c CAPE
	err := strictjson.Object(v,
		strictjson.Req("payloads", strictjson.List(&c.Payloads, decodeProcessFile)),
		strictjson.Req("configs", strictjson.CanaryList),
	)
	return c, err
}

// decodeDetectionsToPID decodes the pid-keyed detection map; JSON
// object keys are decimal strings.
func decodeDetectionsToPID(dst *map[int][]string) strictjson.Func {
	return func(v interface{}) error {
		if v == nil {
			return nil
		}
		var raw map[string][]string
		if err := strictjson.MapOf(&raw, stringsValue)(v); err != nil {
			return err
		}
		out := make(map[int][]string, len(raw))
		for key, names := range raw {
			pid, err := strconv.Atoi(key)
			if err != nil {
				return strictjson.AtKey(strictjson.ScalarError("expected integer key"), key)
			}
			out[pid] = names
		}
		*dst = out
		return nil
	}
}

func decodeReport(v interface{}) (*Report, error) {
	var r Report
	err := strictjson.Object(v,
		strictjson.Req("target", into(&r.Target, decodeTarget)),

		// static analysis results
		strictjson.Opt("static", intoPtr(&r.Static, decodeStatic)),
		strictjson.Opt("strings", strictjson.List(&r.Strings, strictjson.StringValue)),

		// dynamic analysis results
		strictjson.Req("behavior", into(&r.Behavior, decodeBehavior)),
		strictjson.Req("CAPE", into(&r.CAPE, decodeCAPE)),

		strictjson.Req("network", into(&r.Network, decodeNetwork)),
		strictjson.Req("suricata", into(&r.Suricata, decodeSuricata)),
		strictjson.Req("dropped", strictjson.List(&r.Dropped, decodeFile)),
		strictjson.Req("procdump", strictjson.List(&r.Procdump, decodeProcessFile)),
		strictjson.Req("procmemory", strictjson.CanaryList),

		// shapes never observed populated
		strictjson.Opt("curtain", strictjson.Canary),
		strictjson.Opt("sysmon", strictjson.CanaryList),

		// screenshot hashes, job metadata, stage timings, ATT&CK
		// tags, debug logs, AV results: accepted, not modeled
		strictjson.Opt("deduplicated_shots", strictjson.Opaque),
		strictjson.Opt("info", strictjson.Opaque),
		strictjson.Opt("statistics", strictjson.Opaque),
		strictjson.Opt("ttps", strictjson.Opaque),
		strictjson.Opt("debug", strictjson.Opaque),
		strictjson.Opt("virustotal", strictjson.Opaque),

		// detection summary
		strictjson.Req("signatures", strictjson.List(&r.Signatures, decodeSignature)),
		strictjson.Opt("malfamily_tag", strictjson.StringPtr(&r.MalfamilyTag)),
		strictjson.Req("malscore", strictjson.Float(&r.Malscore)),
		strictjson.Opt("detections", strictjson.StringPtr(&r.Detections)),
		strictjson.Opt("detections2pid", decodeDetectionsToPID(&r.DetectionsToPID)),
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
