package app

import (
	"fmt"

	"github.com/allisson/phiguard/internal/audit"
	auditRepository "github.com/allisson/phiguard/internal/audit/repository"
	"github.com/allisson/phiguard/internal/phi/guard"
	"github.com/allisson/phiguard/internal/phi/sanitizer"
	recordsDomain "github.com/allisson/phiguard/internal/records/domain"
)

// AuditSink returns the sink that receives guard decisions.
func (c *Container) AuditSink() (audit.Sink, error) {
	var err error
	c.auditSinkInit.Do(func() {
		c.auditSink, err = c.initAuditSink()
		if err != nil {
			c.initErrors["auditSink"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditSink"]; exists {
		return nil, storedErr
	}
	return c.auditSink, nil
}

// FieldGuard returns the guard protecting patient record sensitive fields.
func (c *Container) FieldGuard() (*guard.FieldGuard, error) {
	var err error
	c.fieldGuardInit.Do(func() {
		c.fieldGuard, err = c.initFieldGuard()
		if err != nil {
			c.initErrors["fieldGuard"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fieldGuard"]; exists {
		return nil, storedErr
	}
	return c.fieldGuard, nil
}

// Sanitizer returns the payload sanitizer.
// Construction fails fast when the configured forbidden-key-set version does
// not match the compiled-in taxonomy.
func (c *Container) Sanitizer() (*sanitizer.Sanitizer, error) {
	var err error
	c.sanitizerInit.Do(func() {
		c.sanitizer, err = sanitizer.New(c.config.ForbiddenKeySetVersion)
		if err != nil {
			c.initErrors["sanitizer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sanitizer"]; exists {
		return nil, storedErr
	}
	return c.sanitizer, nil
}

// initAuditSink selects the audit sink based on configuration.
func (c *Container) initAuditSink() (audit.Sink, error) {
	switch c.config.AuditSink {
	case "log":
		return audit.NewLogSink(c.Logger()), nil
	case "database":
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for audit sink: %w", err)
		}
		switch c.config.DBDriver {
		case "postgres":
			return auditRepository.NewPostgreSQLAuditRepository(db), nil
		case "mysql":
			return auditRepository.NewMySQLAuditRepository(db), nil
		default:
			return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	default:
		return nil, fmt.Errorf("unsupported audit sink: %s", c.config.AuditSink)
	}
}

// initFieldGuard creates the field guard with all its dependencies.
func (c *Container) initFieldGuard() (*guard.FieldGuard, error) {
	codec, err := c.FieldCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get field codec for field guard: %w", err)
	}

	hasher, err := c.LookupHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get lookup hasher for field guard: %w", err)
	}

	sink, err := c.AuditSink()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit sink for field guard: %w", err)
	}

	return guard.NewFieldGuard(
		recordsDomain.FieldSet(),
		codec,
		hasher,
		sink,
		c.config.DisclosureRoleList(),
		c.config.CodecTimeout,
		c.Logger(),
	), nil
}
