package settings_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/oms-envcheck/internal/settings"
	"github.com/angeloszaimis/oms-envcheck/internal/settingserr"
	"github.com/angeloszaimis/oms-envcheck/internal/source"
)

func requiredOnly() source.Tree {
	return source.Tree{
		"server": map[string]any{
			"port":         8000,
			"cors_origins": []any{"http://localhost:3003", "https://demo.msupply.org"},
		},
		"database": map[string]any{
			"username":      "postgres",
			"password":      "password",
			"port":          5432,
			"host":          "localhost",
			"database_name": "omsupply-database",
		},
	}
}

func section(tree source.Tree, name string) map[string]any {
	return tree[name].(map[string]any)
}

func expectSchemaError(err error, path string) *settingserr.Error {
	GinkgoHelper()
	Expect(err).To(HaveOccurred())
	Expect(errors.Is(err, settingserr.ErrConfig)).To(BeTrue(), err.Error())

	var settingsErr *settingserr.Error
	Expect(errors.As(err, &settingsErr)).To(BeTrue())
	Expect(settingsErr.Path).To(Equal(path))
	Expect(err.Error()).To(ContainSubstring(path))
	return settingsErr
}

var _ = Describe("Materialize", func() {
	Context("with only required sections", func() {
		It("should leave optional sections absent", func() {
			s, err := settings.Materialize(requiredOnly())
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Sync).To(BeNil())
			Expect(s.Logging).To(BeNil())
		})

		It("should decode the server section", func() {
			s, err := settings.Materialize(requiredOnly())
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Server.Port).To(Equal(uint16(8000)))
			Expect(s.Server.CORSOrigins).To(Equal([]string{"http://localhost:3003", "https://demo.msupply.org"}))
			Expect(s.Server.DangerAllowHTTP).To(BeFalse())
			Expect(s.Server.DebugNoAccessControl).To(BeFalse())
			Expect(s.Server.BaseDir).To(BeNil())
			Expect(s.Server.MachineUID).To(BeNil())
		})

		It("should decode the database section", func() {
			s, err := settings.Materialize(requiredOnly())
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Database).To(Equal(settings.DatabaseSettings{
				Username:     "postgres",
				Password:     "password",
				Port:         5432,
				Host:         "localhost",
				DatabaseName: "omsupply-database",
			}))
		})

		It("should be idempotent", func() {
			tree := requiredOnly()
			first, err := settings.Materialize(tree)
			Expect(err).NotTo(HaveOccurred())
			second, err := settings.Materialize(tree)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
			Expect(second).NotTo(BeIdenticalTo(first))
		})
	})

	Context("with optional server fields", func() {
		It("should decode them when present", func() {
			tree := requiredOnly()
			server := section(tree, "server")
			server["danger_allow_http"] = true
			server["debug_no_access_control"] = true
			server["base_dir"] = "/var/lib/omsupply"
			server["machine_uid"] = "abc-123"

			s, err := settings.Materialize(tree)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Server.DangerAllowHTTP).To(BeTrue())
			Expect(s.Server.DebugNoAccessControl).To(BeTrue())
			Expect(*s.Server.BaseDir).To(Equal("/var/lib/omsupply"))
			Expect(*s.Server.MachineUID).To(Equal("abc-123"))
		})

		It("should reject a flag of the wrong type", func() {
			tree := requiredOnly()
			section(tree, "server")["danger_allow_http"] = "yes"

			_, err := settings.Materialize(tree)
			expectSchemaError(err, "server.danger_allow_http")
		})
	})

	Context("with missing required fields", func() {
		It("should name server.port", func() {
			tree := requiredOnly()
			delete(section(tree, "server"), "port")

			_, err := settings.Materialize(tree)
			settingsErr := expectSchemaError(err, "server.port")
			Expect(settingsErr.Expected).To(Equal("uint16"))
		})

		It("should name a missing required section", func() {
			tree := requiredOnly()
			delete(tree, "database")

			_, err := settings.Materialize(tree)
			settingsErr := expectSchemaError(err, "database")
			Expect(settingsErr.Expected).To(Equal("table"))
		})

		It("should name missing database fields", func() {
			tree := requiredOnly()
			delete(section(tree, "database"), "host")

			_, err := settings.Materialize(tree)
			expectSchemaError(err, "database.host")
		})

		It("should require cors_origins", func() {
			tree := requiredOnly()
			delete(section(tree, "server"), "cors_origins")

			_, err := settings.Materialize(tree)
			expectSchemaError(err, "server.cors_origins")
		})
	})

	Context("with wrong scalar types", func() {
		It("should name the field and the expected numeric type", func() {
			tree := requiredOnly()
			section(tree, "server")["port"] = "abc"

			_, err := settings.Materialize(tree)
			settingsErr := expectSchemaError(err, "server.port")
			Expect(settingsErr.Expected).To(Equal("uint16"))
			Expect(err.Error()).To(ContainSubstring("uint16"))
		})

		It("should reject a section given as a scalar", func() {
			tree := requiredOnly()
			tree["server"] = "localhost:8000"

			_, err := settings.Materialize(tree)
			expectSchemaError(err, "server")
		})

		It("should name the offending list element", func() {
			tree := requiredOnly()
			section(tree, "server")["cors_origins"] = []any{"http://localhost", 42}

			_, err := settings.Materialize(tree)
			expectSchemaError(err, "server.cors_origins[1]")
		})

		It("should reject a scalar where a list is expected", func() {
			tree := requiredOnly()
			section(tree, "server")["cors_origins"] = "*"

			_, err := settings.Materialize(tree)
			expectSchemaError(err, "server.cors_origins")
		})
	})

	Context("with numeric limits", func() {
		DescribeTable("rejected values",
			func(path string, value any) {
				tree := requiredOnly()
				tree["logging"] = map[string]any{"mode": "Console", "level": "Info"}
				sectionName, field := splitPath(path)
				section(tree, sectionName)[field] = value

				_, err := settings.Materialize(tree)
				expectSchemaError(err, path)
			},
			Entry("negative port", "server.port", -1),
			Entry("port wider than 16 bits", "server.port", 70000),
			Entry("fractional port", "server.port", 80.5),
			Entry("negative file count", "logging.max_file_count", -3),
			Entry("file count wider than 32 bits", "logging.max_file_count", int64(1)<<40),
			Entry("negative file size", "logging.max_file_size", -10),
			Entry("negative database port", "database.port", -5432),
		)

		It("should accept the largest port", func() {
			tree := requiredOnly()
			section(tree, "server")["port"] = 65535

			s, err := settings.Materialize(tree)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Server.Port).To(Equal(uint16(65535)))
		})

		It("should accept whole floats", func() {
			tree := requiredOnly()
			section(tree, "server")["port"] = 8080.0

			s, err := settings.Materialize(tree)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Server.Port).To(Equal(uint16(8080)))
		})
	})

	Context("with a logging section", func() {
		It("should leave rotation fields absent when only mode and level are set", func() {
			tree := requiredOnly()
			tree["logging"] = map[string]any{"mode": "Console", "level": "Info"}

			s, err := settings.Materialize(tree)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Logging).NotTo(BeNil())
			Expect(s.Logging.Mode).To(Equal(settings.LogModeConsole))
			Expect(s.Logging.Level).To(Equal(settings.LevelInfo))
			Expect(s.Logging.Directory).To(BeNil())
			Expect(s.Logging.Filename).To(BeNil())
			Expect(s.Logging.MaxFileCount).To(BeNil())
			Expect(s.Logging.MaxFileSize).To(BeNil())
		})

		It("should fail naming logging.level when the level is missing", func() {
			tree := requiredOnly()
			tree["logging"] = map[string]any{"mode": "File"}

			_, err := settings.Materialize(tree)
			expectSchemaError(err, "logging.level")
		})

		It("should decode rotation parameters", func() {
			tree := requiredOnly()
			tree["logging"] = map[string]any{
				"mode":           "All",
				"level":          "Debug",
				"directory":      "log",
				"filename":       "remote_server.log",
				"max_file_count": 10,
				"max_file_size":  20,
			}

			s, err := settings.Materialize(tree)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Logging.Mode).To(Equal(settings.LogModeAll))
			Expect(s.Logging.Level).To(Equal(settings.LevelDebug))
			Expect(*s.Logging.Directory).To(Equal("log"))
			Expect(*s.Logging.Filename).To(Equal("remote_server.log"))
			Expect(*s.Logging.MaxFileCount).To(Equal(uint32(10)))
			Expect(*s.Logging.MaxFileSize).To(Equal(uint64(20)))
		})

		DescribeTable("unknown enum variants",
			func(field, value string) {
				tree := requiredOnly()
				logging := map[string]any{"mode": "Console", "level": "Info"}
				logging[field] = value
				tree["logging"] = logging

				_, err := settings.Materialize(tree)
				expectSchemaError(err, "logging."+field)
				Expect(err.Error()).To(ContainSubstring(value))
			},
			Entry("mode", "mode", "Syslog"),
			Entry("level", "level", "Verbose"),
			Entry("level Off", "level", "Off"),
			Entry("lower-case mode", "mode", "console"),
			Entry("upper-case mode", "mode", "FILE"),
			Entry("padded mode", "mode", " Console "),
			Entry("lower-case level", "level", "info"),
			Entry("upper-case level", "level", "DEBUG"),
			Entry("empty level", "level", ""),
		)

		It("should fail naming logging.mode when the section is empty", func() {
			tree := requiredOnly()
			tree["logging"] = map[string]any{}

			s, err := settings.Materialize(tree)
			settingsErr := expectSchemaError(err, "logging.mode")
			Expect(settingsErr.Err.Error()).To(ContainSubstring("missing field"))
			Expect(s).To(BeNil())
		})

		It("should treat a null section as absent", func() {
			tree := requiredOnly()
			tree["logging"] = nil

			s, err := settings.Materialize(tree)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Logging).To(BeNil())
		})

		It("should reject a non-string enum", func() {
			tree := requiredOnly()
			tree["logging"] = map[string]any{"mode": 1, "level": "Info"}

			_, err := settings.Materialize(tree)
			expectSchemaError(err, "logging.mode")
		})
	})

	Context("with a sync section", func() {
		It("should decode all fields", func() {
			tree := requiredOnly()
			tree["sync"] = map[string]any{
				"url":              "http://localhost:2048",
				"username":         "Gen",
				"password_sha256":  "d74ff0ee8da3b9806b18c877dbf29bbde50b5bd8e4dad7a3a725000feb82e8f1",
				"interval_seconds": 300,
			}

			s, err := settings.Materialize(tree)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Sync).To(Equal(&settings.SyncSettings{
				URL:             "http://localhost:2048",
				Username:        "Gen",
				PasswordSHA256:  "d74ff0ee8da3b9806b18c877dbf29bbde50b5bd8e4dad7a3a725000feb82e8f1",
				IntervalSeconds: 300,
			}))
		})

		It("should fail naming sync.url when the section is empty", func() {
			tree := requiredOnly()
			tree["sync"] = map[string]any{}

			_, err := settings.Materialize(tree)
			expectSchemaError(err, "sync.url")
		})

		It("should fail when partially specified", func() {
			tree := requiredOnly()
			tree["sync"] = map[string]any{"url": "http://localhost:2048"}

			_, err := settings.Materialize(tree)
			expectSchemaError(err, "sync.username")
		})
	})

	It("should ignore unknown keys", func() {
		tree := requiredOnly()
		section(tree, "server")["legacy_option"] = true
		tree["telemetry"] = map[string]any{"enabled": false}

		_, err := settings.Materialize(tree)
		Expect(err).NotTo(HaveOccurred())
	})
})
