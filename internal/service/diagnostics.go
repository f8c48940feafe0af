package service

import (
	"context"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Mansurxan1/hadiya/internal/entity"
)

const (
	testPaymentAmount    = "1000"
	testPaymentReturnURL = "https://example.com"
)

// Diagnostics reports the state of the Click integration: which settings are missing,
// whether Click hosts answer and whether the order store is reachable.
func (s *Service) Diagnostics(ctx context.Context) entity.Diagnostics {
	now := s.now()

	d := entity.Diagnostics{
		ServiceID:      s.cfg.ServiceID,
		MerchantID:     s.cfg.MerchantID,
		MerchantUserID: s.cfg.MerchantUserID,
		Missing:        s.cfg.Missing(),
		FiscalMissing:  s.cfg.FiscalMissing(),
		VATPercent:     s.cfg.VATPercent,
		CheckedAt:      now,
	}

	hosts := []string{s.cfg.PayURL, s.cfg.APIURL}
	d.Hosts = make([]entity.HostCheck, len(hosts))

	var g errgroup.Group

	for i, raw := range hosts {
		g.Go(func() error {
			d.Hosts[i] = s.checkHost(ctx, raw)
			return nil
		})
	}

	g.Go(func() error {
		err := s.repo.Ping(ctx)
		if err != nil {
			d.StoreError = err.Error()
			return nil
		}

		d.StoreReachable = true

		return nil
	})

	_ = g.Wait()

	if d.Configured() {
		orderID := "test-" + strconv.FormatInt(now.UnixMilli(), 10)

		link, err := s.redirectURL(orderID, testPaymentAmount, testPaymentReturnURL, strconv.FormatInt(now.UnixMilli(), 10))
		if err == nil {
			d.TestPaymentURL = link
		}
	}

	return d
}

func (s *Service) checkHost(ctx context.Context, raw string) entity.HostCheck {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return entity.HostCheck{Host: raw, Error: "invalid url"}
	}

	target := u.Scheme + "://" + u.Host

	err = s.click.Reach(ctx, target)
	if err != nil {
		return entity.HostCheck{Host: u.Host, Error: err.Error()}
	}

	return entity.HostCheck{Host: u.Host, Reachable: true}
}
