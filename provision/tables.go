package provision

import (
	"fmt"
	"path/filepath"
	"strings"

	version "github.com/hashicorp/go-version"
	"github.com/spf13/afero"

	"github.com/telephony-tools/sipschema/internal/debug"
)

// StandardModules is the default module set installed by `create` when no
// explicit selection is configured.
var StandardModules = []string{
	"acc",
	"alias_db",
	"auth_db",
	"avpops",
	"clusterer",
	"dialog",
	"dialplan",
	"dispatcher",
	"domain",
	"drouting",
	"group",
	"load_balancer",
	"msilo",
	"permissions",
	"rtpproxy",
	"rtpengine",
	"speeddial",
	"tls_mgm",
	"usrloc",
}

// ExtraModules are never installed by default; they must be requested
// explicitly or through the "all" sentinel.
var ExtraModules = []string{
	"b2b",
	"b2b_sca",
	"call_center",
	"carrierroute",
	"closeddial",
	"domainpolicy",
	"emergency",
	"fraud_detection",
	"freeswitch_scripting",
	"imc",
	"load_balancer",
	"presence",
	"registrant",
	"rls",
	"smpp",
	"tracer",
	"userblacklist",
}

// Manifest is the fixed table list valid for migrating one source schema
// version to one destination version. It is a compatibility contract, not a
// module list.
type Manifest struct {
	From     *version.Version
	To       *version.Version
	CopyProc string
	Tables   []string
}

var manifests = buildManifests()

func buildManifests() []*Manifest {
	from := version.Must(version.NewVersion("2.4"))
	to := version.Must(version.NewVersion("3.0"))
	return []*Manifest{{
		From:     from,
		To:       to,
		CopyProc: "SIP_TB_COPY_2_4_TO_3_0",
		Tables: []string{
			"registrant", // changed in 3.0
			"tls_mgm",    // changed in 3.0
			"acc",
			"address",
			"cachedb",
			"carrierfailureroute",
			"carrierroute",
			"cc_agents",
			"cc_calls",
			"cc_cdrs",
			"cc_flows",
			"closeddial",
			"clusterer",
			"cpl",
			"dbaliases",
			"dialplan",
			"dispatcher",
			"domain",
			"domainpolicy",
			"dr_carriers",
			"dr_gateways",
			"dr_groups",
			"dr_partitions",
			"dr_rules",
			"emergency_report",
			"emergency_routing",
			"emergency_service_provider",
			"fraud_detection",
			"freeswitch",
			"globalblacklist",
			"grp",
			"imc_members",
			"imc_rooms",
			"load_balancer",
			"location",
			"missed_calls",
			"presentity",
			"pua",
			"re_grp",
			"rls_presentity",
			"rls_watchers",
			"route_tree",
			"rtpengine",
			"rtpproxy_sockets",
			"silo",
			"sip_trace",
			"smpp",
			"speed_dial",
			"subscriber",
			"uri",
			"userblacklist",
			"usr_preferences",
			"xcap",
		},
	}}
}

// ManifestFor returns the manifest covering the given source and destination
// schema versions, or an error when no compatibility window matches.
func ManifestFor(from, to string) (*Manifest, error) {
	fv, err := version.NewVersion(from)
	if err != nil {
		return nil, fmt.Errorf("bad source version %q: %w", from, err)
	}
	tv, err := version.NewVersion(to)
	if err != nil {
		return nil, fmt.Errorf("bad destination version %q: %w", to, err)
	}
	for _, m := range manifests {
		if m.From.Equal(fv) && m.To.Equal(tv) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no migration manifest for %s -> %s", fv, tv)
}

// resolveModules computes the module set to install. Precedence: an explicit
// caller list, the configured database_modules value ("all" enumerates every
// *-create.sql under schemaDir), then the standard module set. Extra modules
// are never pulled in by default.
func (e *Engine) resolveModules(explicit []string, schemaDir string) []string {
	if len(explicit) > 0 {
		return explicit
	}

	if e.cfg.Exists(KeyDatabaseModules) {
		line := strings.ToLower(strings.TrimSpace(e.cfg.Get(KeyDatabaseModules)))
		if line == "all" {
			debug.Debug("creating all tables")
			return e.enumerateModules(schemaDir)
		}
		debug.Debug("creating custom tables", "modules", line)
		return strings.Fields(line)
	}

	debug.Debug("creating standard tables")
	return StandardModules
}

// ModuleInfo describes one known module and whether its creation asset is
// present under the resolved schema root.
type ModuleInfo struct {
	Name      string
	Set       string
	Available bool
}

// ModuleAvailability reports every known module against the resolved schema
// root for the active backend.
func (e *Engine) ModuleAvailability() ([]ModuleInfo, error) {
	tag, err := e.engineTag()
	if err != nil {
		return nil, err
	}
	dir, err := e.schemaPath(tag)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []ModuleInfo
	collect := func(names []string, set string) {
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			ok, _ := afero.Exists(e.fs, filepath.Join(dir, name+createSuffix))
			out = append(out, ModuleInfo{Name: name, Set: set, Available: ok})
		}
	}
	collect(StandardModules, "standard")
	collect(ExtraModules, "extra")
	return out, nil
}

// enumerateModules lists every module with a creation asset under schemaDir.
func (e *Engine) enumerateModules(schemaDir string) []string {
	entries, err := afero.ReadDir(e.fs, schemaDir)
	if err != nil {
		debug.Warn("cannot enumerate schema dir", "dir", schemaDir, "err", err)
		return nil
	}

	var modules []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, createSuffix) {
			continue
		}
		modules = append(modules, strings.TrimSuffix(filepath.Base(name), createSuffix))
	}
	return modules
}
