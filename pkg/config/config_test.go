package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/veil/pkg/config"
	"github.com/papercomputeco/veil/pkg/logger"
)

var _ = Describe("Load", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	writeConfig := func(data string) string {
		path := filepath.Join(tmpDir, "config.json")
		Expect(os.WriteFile(path, []byte(data), 0o600)).To(Succeed())
		return path
	}

	It("returns default config when no config file exists", func() {
		v := config.InitViper(filepath.Join(tmpDir, "config.json"))

		cfg, err := config.Load(v, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		defaults := config.NewDefaultConfig()
		Expect(cfg.Model.Name).To(Equal(defaults.Model.Name))
		Expect(cfg.Backend.Provider).To(Equal(defaults.Backend.Provider))
		Expect(cfg.Backend.TimeoutSeconds).To(Equal(defaults.Backend.TimeoutSeconds))
		Expect(cfg.Server.Listen).To(Equal(defaults.Server.Listen))
		Expect(cfg.History.Provider).To(Equal(defaults.History.Provider))
		Expect(cfg.Anonymizer.Enabled).To(BeTrue())
		Expect(cfg.Anonymizer.AllowClearnetFallback).To(BeFalse())
		Expect(cfg.Research.Enabled).To(BeTrue())
	})

	It("loads a valid config file over the defaults", func() {
		path := writeConfig(`{
			"model": {"name": "custom/model"},
			"backend": {"provider": "local", "timeout_seconds": 30},
			"anonymizer": {"enabled": false}
		}`)

		v := config.InitViper(path)

		cfg, err := config.Load(v, logger.Nop())
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Model.Name).To(Equal("custom/model"))
		Expect(cfg.Backend.Provider).To(Equal("local"))
		Expect(cfg.Backend.TimeoutSeconds).To(Equal(30))
		Expect(cfg.Anonymizer.Enabled).To(BeFalse())

		// Unset sections still carry defaults.
		defaults := config.NewDefaultConfig()
		Expect(cfg.Server.Listen).To(Equal(defaults.Server.Listen))
		Expect(cfg.History.Path).To(Equal(defaults.History.Path))
	})

	It("falls back to defaults on a corrupt config file", func() {
		path := writeConfig(`{not json at all`)

		v := config.InitViper(path)

		cfg, err := config.Load(v, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Model.Name).To(Equal(config.NewDefaultConfig().Model.Name))
	})

	It("ignores unknown keys without failing", func() {
		path := writeConfig(`{
			"model": {"name": "custom/model"},
			"mystery": {"knob": true}
		}`)

		v := config.InitViper(path)

		cfg, err := config.Load(v, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Model.Name).To(Equal("custom/model"))
	})

	It("lets environment variables override file values", func() {
		path := writeConfig(`{"server": {"listen": ":6000"}}`)
		GinkgoT().Setenv("VEIL_SERVER_LISTEN", ":7000")

		v := config.InitViper(path)

		cfg, err := config.Load(v, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Listen).To(Equal(":7000"))
	})
})

var _ = Describe("IsValidConfigKey", func() {
	It("accepts supported keys", func() {
		Expect(config.IsValidConfigKey("model.name")).To(BeTrue())
		Expect(config.IsValidConfigKey("anonymizer.socks_addr")).To(BeTrue())
	})

	It("rejects unsupported keys", func() {
		Expect(config.IsValidConfigKey("mystery.knob")).To(BeFalse())
	})
})

var _ = Describe("Flags", func() {
	It("binds registered flags into the viper precedence chain", func() {
		cmd := &cobra.Command{Use: "serve"}

		var listen string
		config.AddStringFlag(cmd, config.ServeFlags, config.FlagListen, &listen)
		Expect(listen).To(Equal(config.NewDefaultConfig().Server.Listen))

		Expect(cmd.Flags().Set("listen", ":9999")).To(Succeed())

		v := config.InitViper("")
		config.BindRegisteredFlags(v, cmd, config.ServeFlags, []string{config.FlagListen})

		Expect(v.GetString("server.listen")).To(Equal(":9999"))
	})
})
