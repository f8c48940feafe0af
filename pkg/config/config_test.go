package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Mansurxan1/hadiya/pkg/config"
)

func TestClick_Missing(t *testing.T) {
	t.Parallel()

	c := config.Click{ServiceID: "28420", MerchantID: "20891"}

	require.Equal(t, []string{"CLICK_MERCHANT_USER_ID", "CLICK_SECRET_KEY"}, c.Missing())
	require.Equal(t,
		[]string{"CLICK_MERCHANT_USER_ID", "CLICK_PACKAGE_CODE", "CLICK_SECRET_KEY", "CLICK_SPIC_CODE"},
		c.FiscalMissing(),
	)

	c.MerchantUserID = "41234"
	c.SecretKey = "s3cr3t"
	c.SPICCode = "10399001001000000"
	c.PackageCode = "1500269"

	require.Empty(t, c.Missing())
	require.Empty(t, c.FiscalMissing())
}

//nolint:paralleltest
func TestNew(t *testing.T) {
	t.Setenv("CLICK_SERVICE_ID", "28420")
	t.Setenv("CLICK_CALLBACK_IP_WL", "185.8.212.184,185.8.212.185")
	t.Setenv("ORDER_STORE", "memory")

	c, err := config.New("testdata/absent.env")
	require.NoError(t, err)
	require.Equal(t, "28420", c.Click.ServiceID)
	require.Equal(t, []string{"185.8.212.184", "185.8.212.185"}, c.Click.CallbackIPWL)
	require.Equal(t, config.StoreMemory, c.Store.Kind)
	require.Equal(t, 15, c.Click.VATPercent)
	require.Equal(t, "https://api.click.uz/v2/merchant", c.Click.APIURL)
	require.Equal(t, 8080, c.HTTP.Port)
	require.Equal(t, uint64(5), c.Postgres.ConnectRetries)
	require.Equal(t, 500*time.Millisecond, c.Postgres.ConnectBackoff)
}
