package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/crewjam/rfc5424"
)

// KernelParser parses kernel ring buffer records in either of the two
// formats Linux exposes:
//
//	<6>[    1.234567] message          (/proc/kmsg, syslog(2))
//	6,339,5140900,-;message\n KEY=val  (/dev/kmsg)
type KernelParser struct{}

var (
	procKmsgPattern = regexp.MustCompile(`^<(\d{1,3})>(?:\[\s*(\d+\.\d+)\]\s?)?`)
	devKmsgPattern  = regexp.MustCompile(`^(\d{1,4}),(\d+),(\d+),([^;,]*)[^;]*;`)
)

var syslogFacilities = []string{
	"kern", "user", "mail", "daemon", "auth", "syslog", "lpr", "news",
	"uucp", "cron", "authpriv", "ftp", "ntp", "security", "console", "solaris-cron",
	"local0", "local1", "local2", "local3", "local4", "local5", "local6", "local7",
}

// severityLevel maps a syslog severity onto the levels used elsewhere.
func severityLevel(sev rfc5424.Priority) string {
	switch {
	case sev < rfc5424.Error:
		return "FATAL"
	case sev == rfc5424.Error:
		return "ERROR"
	case sev == rfc5424.Warning:
		return "WARN"
	case sev == rfc5424.Debug:
		return "DEBUG"
	default:
		return "INFO"
	}
}

func looksLikeKernel(line string) bool {
	return procKmsgPattern.MatchString(line) || devKmsgPattern.MatchString(line)
}

// Parse parses a kernel record. Records in neither format are kept as
// plain messages.
func (p *KernelParser) Parse(record string) LogEntry {
	entry := newEntry(record, FormatKernel)
	record = strings.TrimRight(record, "\n")

	if m := devKmsgPattern.FindStringSubmatch(record); m != nil {
		setPriority(&entry, m[1])
		entry.Fields["seq"] = m[2]
		entry.Fields["uptime_us"] = m[3]
		if m[4] != "" && m[4] != "-" {
			entry.Fields["flags"] = m[4]
		}
		body := record[len(m[0]):]
		lines := strings.Split(body, "\n")
		entry.Message = lines[0]
		for _, dict := range lines[1:] {
			dict = strings.TrimLeft(dict, " ")
			if k, v, ok := strings.Cut(dict, "="); ok && k != "" {
				entry.Fields[k] = v
			}
		}
		return entry
	}

	if m := procKmsgPattern.FindStringSubmatch(record); m != nil {
		setPriority(&entry, m[1])
		if m[2] != "" {
			entry.Fields["uptime"] = m[2]
		}
		entry.Message = record[len(m[0]):]
		return entry
	}

	entry.Message = record
	return entry
}

func setPriority(entry *LogEntry, raw string) {
	pri, err := strconv.Atoi(raw)
	if err != nil {
		return
	}
	entry.Level = severityLevel(rfc5424.Priority(pri & 7))
	if fac := pri >> 3; fac < len(syslogFacilities) {
		entry.Fields["facility"] = syslogFacilities[fac]
	}
}
