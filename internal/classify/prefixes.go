package classify

// DefaultSystemPrefixes returns the built-in allow-list of known OS and
// vendor process-name prefixes. The list is vendor-specific and necessarily
// incomplete; deployments can override it via configuration.
func DefaultSystemPrefixes() []string {
	return []string{
		"system_server", "surfaceflinger", "audioserver", "mediaserver",
		"zygote", "init", "logd", "statsd", "adbd",
		"android.hardware", "android.system", "android.process",
		"vendor.", "servicemanager", "hwservicemanager", "vndservicemanager",
		"gatekeeperd", "keystore2", "rild", "netd", "lmkd",
		"cameraserver", "drmserver", "gpsd", "gpuservice",
		"vaultkeeperd", "watchdogd", "traced", "tombstoned", "ueventd",
		"vold", "auditd", "credstore", "incidentd", "prng_seeder",
		"media.swcodec", "media.extractor", "media.metrics",
		"samsung.hardware.media", "samsung.software.media",
		"vendor.samsung.hardware.", "perfmond", "pageboostd", "multiclientd",
		"wlbtd", "cbd", "ddexe", "diagexe", "smdexe", "connfwexe",
		"tzdaemon", "smc_server", "emservice", "spqr_service", "speg_helper",
		"iod", "cass", "main_abox", "abox_log", "fabric_crypto",
		"perfsdkserver", "kumiho.decoder",
	}
}
