// Package api is the typed command layer on top of the raw exchange:
// it serializes node commands to JSON, runs the query and decodes the
// reply, surfacing node-side failures as NodeError.
package api

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/tanglekit/nodeclient/client"
	"github.com/tanglekit/nodeclient/config"
	"github.com/tanglekit/nodeclient/http"
	"github.com/tanglekit/nodeclient/http/status"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Commander issues commands against a single node.
type Commander struct {
	client *client.Client
	cfg    *config.Config
	host   string
	path   string
}

func NewCommander(c *client.Client, cfg *config.Config, host string) *Commander {
	return &Commander{
		client: c,
		cfg:    cfg,
		host:   host,
		path:   "/",
	}
}

// NodeError is an application-level failure reported by the node
// itself: the exchange succeeded, the command did not.
type NodeError struct {
	Code   status.Code
	Reason string
}

func (e *NodeError) Error() string {
	if len(e.Reason) > 0 {
		return "node: " + e.Reason
	}

	return "node: request rejected"
}

type command struct {
	Command string `json:"command"`
}

// NodeInfo is the reply to the getNodeInfo command.
type NodeInfo struct {
	AppName              string `json:"appName"`
	AppVersion           string `json:"appVersion"`
	Network              string `json:"network"`
	Time                 uint64 `json:"time"`
	Tips                 int    `json:"tips"`
	Neighbors            int    `json:"neighbors"`
	LatestMilestoneIndex int    `json:"latestMilestoneIndex"`
}

func (c *Commander) GetNodeInfo() (*NodeInfo, error) {
	info := new(NodeInfo)
	return info, c.run(command{Command: "getNodeInfo"}, info)
}

type balancesCommand struct {
	command
	Addresses []string `json:"addresses"`
	Threshold int      `json:"threshold"`
}

// Balances is the reply to the getBalances command. Balance values are
// decimal strings: ledger units exceed what float-backed decoders
// handle losslessly.
type Balances struct {
	Balances       []string `json:"balances"`
	MilestoneIndex int      `json:"milestoneIndex"`
}

func (c *Commander) GetBalances(addresses []string, threshold int) (*Balances, error) {
	balances := new(Balances)
	cmd := balancesCommand{
		command:   command{Command: "getBalances"},
		Addresses: addresses,
		Threshold: threshold,
	}

	return balances, c.run(cmd, balances)
}

// Tips is the reply to the getTips command.
type Tips struct {
	Hashes []string `json:"hashes"`
}

func (c *Commander) GetTips() (*Tips, error) {
	tips := new(Tips)
	return tips, c.run(command{Command: "getTips"}, tips)
}

type errorReply struct {
	Error     string `json:"error"`
	Exception string `json:"exception"`
}

func (c *Commander) run(cmd, result any) error {
	body, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	response, err := c.client.Query(&http.Request{
		Path:        c.path,
		Host:        c.host,
		APIVersion:  c.cfg.API.Version,
		ContentType: c.cfg.API.ContentType,
		Accept:      c.cfg.API.Accept,
		Body:        body,
	})
	if err != nil {
		return err
	}

	if response.Code >= status.BadRequest {
		return nodeError(response)
	}

	return json.Unmarshal(response.Body, result)
}

func nodeError(response *http.Response) error {
	reply := new(errorReply)
	reason := ""
	if err := json.Unmarshal(response.Body, reply); err == nil {
		reason = reply.Error
		if len(reason) == 0 {
			reason = reply.Exception
		}
	}

	return &NodeError{
		Code:   response.Code,
		Reason: reason,
	}
}
