// Command interceptgen generates a forwarding proxy for a service
// interface. The generated type routes every call through a
// dispatch.Dispatcher, so interceptor chains apply without touching the
// service implementation:
//
//	interceptgen --interface example.com/app/orders.OrderService \
//	    --output orders/orderservice_proxy.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bergvall/intercept-go/internal/codegen"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		ifacePath string
		pkgName   string
		proxyName string
		output    string
	)

	cmd := &cobra.Command{
		Use:          "interceptgen",
		Short:        "Generate interceptor-dispatching proxies for service interfaces",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, ifaceName, err := codegen.SplitInterfacePath(ifacePath)
			if err != nil {
				return err
			}

			src, err := codegen.Generate(pattern, ifaceName, pkgName, proxyName)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(src)
				return err
			}
			if err := os.WriteFile(output, src, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			cmd.Printf("wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&ifacePath, "interface", "", "interface to proxy, as {package path}.{interface name}")
	cmd.Flags().StringVar(&pkgName, "package", "", "package of the generated file (default: the interface's package)")
	cmd.Flags().StringVar(&proxyName, "proxy", "", "name of the generated proxy type (default: {interface}Proxy)")
	cmd.Flags().StringVar(&output, "output", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("interface")

	return cmd
}
