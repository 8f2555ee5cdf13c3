package client

import (
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Config selects the cluster and credentials. It is built once at process start
// and passed explicitly to everything that talks to the API server.
type Config struct {
	// Kubeconfig is the path to a kubeconfig file. Empty means automatic discovery.
	Kubeconfig string

	// Context overrides the kubeconfig's current-context. Ignored in-cluster.
	Context string

	// UserAgent is sent with every request. Empty keeps the client-go default.
	UserAgent string
}

// Build creates a Kubernetes client from cfg.
//
// The kubeconfig is discovered in order:
//  1. Config.Kubeconfig
//  2. KUBECONFIG environment variable
//  3. ~/.kube/config (if it exists)
//  4. In-cluster configuration (service account)
func Build(cfg Config) (*kubernetes.Clientset, *rest.Config, error) {
	restConfig, err := RestConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return client, restConfig, nil
}

// RestConfig resolves cfg into a rest.Config without creating a client.
func RestConfig(cfg Config) (*rest.Config, error) {
	kubeconfig := resolveKubeconfig(cfg.Kubeconfig)

	var (
		restConfig *rest.Config
		err        error
	)
	if kubeconfig == "" {
		restConfig, err = clientcmd.BuildConfigFromFlags("", "")
	} else {
		restConfig, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
			&clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig},
			&clientcmd.ConfigOverrides{CurrentContext: cfg.Context},
		).ClientConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config: %w", err)
	}

	restConfig.ContentType = runtime.ContentTypeJSON
	if cfg.UserAgent != "" {
		restConfig.UserAgent = cfg.UserAgent
	}

	return restConfig, nil
}

func resolveKubeconfig(kubeconfig string) string {
	if kubeconfig != "" {
		return kubeconfig
	}

	if kubeconfig = os.Getenv(clientcmd.RecommendedConfigPathEnvVar); kubeconfig != "" {
		return kubeconfig
	}

	kubeconfig = filepath.Join(homedir.HomeDir(), clientcmd.RecommendedHomeDir, clientcmd.RecommendedFileName)
	if _, err := os.Stat(kubeconfig); os.IsNotExist(err) {
		return ""
	}
	return kubeconfig
}
