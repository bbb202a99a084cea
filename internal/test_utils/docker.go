package testutils

import (
	"errors"
	"fmt"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	dbName     = "main_test"
	dbUsername = "sbuser"
	dbPassword = "sbpass"

	NodeRPCUser     = "bitcoin"
	NodeRPCPassword = "bitcoin"
)

func RunAndMigratePostgresql(pool *dockertest.Pool, port, migrationTable, migrationsPath string) (*dockertest.Resource, string, error) {
	resource, dbInfo, err := RunPostgresql(pool, port)
	if err != nil {
		return nil, "", fmt.Errorf("failed run postgresql: %v", err)
	}

	err = MigrateUp(migrationTable, migrationsPath, dbInfo)
	if err != nil {
		pErr := pool.Purge(resource)
		if pErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to purge pool: %v", pErr))
		}
		return nil, "", fmt.Errorf("failed to run migration: %v", err)
	}

	return resource, dbInfo, nil
}

func RunPostgresql(pool *dockertest.Pool, port string) (*dockertest.Resource, string, error) {
	opts := dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15.4",
		Env: []string{
			fmt.Sprintf("POSTGRES_PASSWORD=%s", dbPassword),
			fmt.Sprintf("POSTGRES_USER=%s", dbUsername),
			fmt.Sprintf("POSTGRES_DB=%s", dbName),
			"listen_addresses = '*'",
		},
		ExposedPorts: []string{"5432"},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"5432": {
				{HostIP: "0.0.0.0", HostPort: port},
			},
		},
	}

	resource, err := pool.RunWithOptions(&opts, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
		config.Tmpfs = map[string]string{
			"/var/lib/postgresql/data": "",
		}
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create resource: %v", err)
	}

	hostPort := resource.GetPort("5432/tcp")
	dbInfo := fmt.Sprintf("host=localhost port=%s user=%s password=%s dbname=%s sslmode=disable", hostPort, dbUsername, dbPassword, dbName)
	return resource, dbInfo, nil
}

func RunNats(pool *dockertest.Pool, port, name string, cmds ...string) (*dockertest.Resource, string, error) {
	opts := dockertest.RunOptions{
		Repository:   "nats",
		Tag:          "2.10.10",
		ExposedPorts: []string{"4222"},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"4222": {
				{HostIP: "0.0.0.0", HostPort: port},
			},
		},
		Name: name,
		Cmd:  cmds,
	}
	resource, err := pool.RunWithOptions(&opts, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create resource: %v", err)
	}

	hostPort := resource.GetPort("4222/tcp")
	natsURL := fmt.Sprintf("nats://localhost:%s", hostPort)

	return resource, natsURL, nil
}

// RunNode starts a regtest node and returns the host port its RPC interface is bound to. cmds
// are appended to the default node arguments.
func RunNode(pool *dockertest.Pool, port, name string, cmds ...string) (*dockertest.Resource, string, error) {
	opts := dockertest.RunOptions{
		Repository:   "bitcoinsv/bitcoin-sv",
		Tag:          "1.1.0",
		ExposedPorts: []string{"18332"},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"18332": {
				{HostIP: "0.0.0.0", HostPort: port},
			},
		},
		Name: name,
		Cmd: append([]string{
			"/entrypoint.sh",
			"bitcoind",
			"-regtest=1",
			"-server=1",
			"-printtoconsole",
			fmt.Sprintf("-rpcuser=%s", NodeRPCUser),
			fmt.Sprintf("-rpcpassword=%s", NodeRPCPassword),
			"-rpcbind=0.0.0.0",
			"-rpcallowip=0.0.0.0/0",
			"-rpcport=18332",
			"-excessiveblocksize=0",
			"-maxstackmemoryusageconsensus=0",
			"-genesisactivationheight=1",
			"-minminingtxfee=0.00000001",
		}, cmds...),
	}
	resource, err := pool.RunWithOptions(&opts, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create resource: %v", err)
	}

	return resource, resource.GetPort("18332/tcp"), nil
}
