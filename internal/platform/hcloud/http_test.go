package hcloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onebox-dev/onebox/internal/config"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/hetznercloud/hcloud-go/v2/hcloud/schema"
)

// testServer creates an httptest server that can be used to mock Hetzner Cloud API responses.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux
}

// newTestServer creates a new test server for mocking the Hetzner Cloud API.
func newTestServer() *testServer {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	return &testServer{
		server: server,
		mux:    mux,
	}
}

// close shuts down the test server.
func (ts *testServer) close() {
	ts.server.Close()
}

// client returns an hcloud.Client configured to use the test server.
func (ts *testServer) client() *hcloud.Client {
	return hcloud.NewClient(
		hcloud.WithToken("test-token"),
		hcloud.WithEndpoint(ts.server.URL),
	)
}

// realClient returns a RealClient configured to use the test server.
func (ts *testServer) realClient() *RealClient {
	return NewRealClient("test-token",
		WithHCloudClient(ts.client()),
		WithTimeouts(config.TestTimeouts()),
	)
}

// handleFunc registers a handler for a specific path.
func (ts *testServer) handleFunc(pattern string, handler http.HandlerFunc) {
	ts.mux.HandleFunc(pattern, handler)
}

// jsonResponse writes a JSON response with the given status code and body.
func jsonResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func successAction(id int64) schema.Action {
	return schema.Action{ID: id, Status: "success", Progress: 100}
}

func TestRealClient_GetServer_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "mybox-a1b2c3" {
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{
				Servers: []schema.Server{
					{
						ID:   123,
						Name: "mybox-a1b2c3",
						PublicNet: schema.ServerPublicNet{
							IPv4: schema.ServerPublicNetIPv4{IP: "203.0.113.42"},
						},
					},
				},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{Servers: []schema.Server{}})
	})

	client := ts.realClient()
	ctx := context.Background()

	t.Run("server found", func(t *testing.T) {
		server, err := client.GetServer(ctx, "mybox-a1b2c3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if server == nil {
			t.Fatal("expected server, got nil")
		}
		if got := ServerIPv4(server); got != "203.0.113.42" {
			t.Errorf("expected IP '203.0.113.42', got %q", got)
		}
	})

	t.Run("server not found", func(t *testing.T) {
		server, err := client.GetServer(ctx, "nonexistent")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if server != nil {
			t.Errorf("expected nil for nonexistent server, got %v", server)
		}
	})
}

func TestRealClient_CreateServer_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/server_types", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerTypeListResponse{
			ServerTypes: []schema.ServerType{
				{ID: 1, Name: "cx22", Architecture: "x86"},
			},
		})
	})

	imageName := "ubuntu-24.04"
	ts.handleFunc("/images", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ImageListResponse{
			Images: []schema.Image{
				{ID: 77, Name: &imageName, Type: "system", Status: "available", Architecture: "x86"},
			},
		})
	})

	ts.handleFunc("/ssh_keys", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.SSHKeyListResponse{
			SSHKeys: []schema.SSHKey{
				{ID: 9, Name: "mybox-ssh", Fingerprint: "aa:bb:cc"},
			},
		})
	})

	ts.handleFunc("/locations", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.LocationListResponse{
			Locations: []schema.Location{
				{ID: 2, Name: "nbg1"},
			},
		})
	})

	var created bool
	ts.handleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{Servers: []schema.Server{}})
			return
		}
		created = true
		jsonResponse(w, http.StatusCreated, schema.ServerCreateResponse{
			Server: schema.Server{
				ID:   501,
				Name: "mybox-a1b2c3",
			},
			Action:      successAction(1),
			NextActions: []schema.Action{successAction(2)},
		})
	})

	client := ts.realClient()
	server, err := client.CreateServer(context.Background(), ServerCreateOpts{
		Name:       "mybox-a1b2c3",
		ServerType: "cx22",
		Image:      "ubuntu-24.04",
		Location:   "nbg1",
		SSHKeys:    []string{"mybox-ssh"},
		Labels:     map[string]string{"onebox.dev/stack": "mybox"},
		UserData:   "#cloud-config\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected POST /servers to be called")
	}
	if server == nil || server.ID != 501 {
		t.Errorf("expected server 501, got %+v", server)
	}
}

func TestRealClient_CreateServer_UnknownServerType(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/server_types", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerTypeListResponse{ServerTypes: []schema.ServerType{}})
	})

	client := ts.realClient()
	_, err := client.CreateServer(context.Background(), ServerCreateOpts{
		Name:       "mybox-a1b2c3",
		ServerType: "does-not-exist",
		Image:      "ubuntu-24.04",
	})
	if err == nil {
		t.Fatal("expected error for unknown server type")
	}
}

func TestRealClient_WaitForServerIP_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	var polls int
	ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
		polls++
		ip := ""
		if polls > 1 {
			ip = "203.0.113.7"
		}
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{
			Servers: []schema.Server{
				{
					ID:   321,
					Name: "mybox-a1b2c3",
					PublicNet: schema.ServerPublicNet{
						IPv4: schema.ServerPublicNetIPv4{IP: ip},
					},
				},
			},
		})
	})

	client := ts.realClient()
	addr, err := client.WaitForServerIP(context.Background(), "mybox-a1b2c3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != "203.0.113.7" {
		t.Errorf("expected '203.0.113.7', got %q", addr)
	}
	if polls < 2 {
		t.Errorf("expected at least 2 polls, got %d", polls)
	}
}

func TestRealClient_WaitForServerIP_ServerMissing(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{Servers: []schema.Server{}})
	})

	client := ts.realClient()
	_, err := client.WaitForServerIP(context.Background(), "gone")
	if err == nil {
		t.Fatal("expected error for missing server")
	}
}

func TestRealClient_DeleteServer_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "server-to-delete" {
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{
				Servers: []schema.Server{
					{ID: 789, Name: "server-to-delete"},
				},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{Servers: []schema.Server{}})
	})

	ts.handleFunc("/servers/789", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			jsonResponse(w, http.StatusOK, schema.ServerDeleteResponse{
				Action: successAction(1),
			})
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	client := ts.realClient()

	if err := client.DeleteServer(context.Background(), "server-to-delete"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Deleting a server that is already gone succeeds.
	if err := client.DeleteServer(context.Background(), "already-gone"); err != nil {
		t.Fatalf("unexpected error for absent server: %v", err)
	}
}

func TestRealClient_EnsureSSHKey_WithHTTPMock(t *testing.T) {
	t.Run("creates when absent", func(t *testing.T) {
		ts := newTestServer()
		defer ts.close()

		var created bool
		ts.handleFunc("/ssh_keys", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				created = true
				jsonResponse(w, http.StatusCreated, schema.SSHKeyCreateResponse{
					SSHKey: schema.SSHKey{
						ID:          1001,
						Name:        "mybox-ssh",
						Fingerprint: "aa:bb:cc:dd",
					},
				})
				return
			}
			jsonResponse(w, http.StatusOK, schema.SSHKeyListResponse{SSHKeys: []schema.SSHKey{}})
		})

		client := ts.realClient()
		key, err := client.EnsureSSHKey(context.Background(), "mybox-ssh", "ssh-rsa AAAA...", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !created {
			t.Error("expected POST /ssh_keys to be called")
		}
		if key.ID != 1001 {
			t.Errorf("expected ID 1001, got %d", key.ID)
		}
	})

	t.Run("returns existing without create", func(t *testing.T) {
		ts := newTestServer()
		defer ts.close()

		var created bool
		ts.handleFunc("/ssh_keys", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				created = true
				http.Error(w, "should not create", http.StatusBadRequest)
				return
			}
			jsonResponse(w, http.StatusOK, schema.SSHKeyListResponse{
				SSHKeys: []schema.SSHKey{
					{ID: 1002, Name: "mybox-ssh", Fingerprint: "ee:ff"},
				},
			})
		})

		client := ts.realClient()
		key, err := client.EnsureSSHKey(context.Background(), "mybox-ssh", "ssh-rsa AAAA...", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created {
			t.Error("did not expect POST /ssh_keys for existing key")
		}
		if key.ID != 1002 {
			t.Errorf("expected ID 1002, got %d", key.ID)
		}
	})
}

func TestRealClient_DeleteSSHKey_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/ssh_keys", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "key-to-delete" {
			jsonResponse(w, http.StatusOK, schema.SSHKeyListResponse{
				SSHKeys: []schema.SSHKey{
					{ID: 1050, Name: "key-to-delete"},
				},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.SSHKeyListResponse{SSHKeys: []schema.SSHKey{}})
	})

	ts.handleFunc("/ssh_keys/1050", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	client := ts.realClient()

	if err := client.DeleteSSHKey(context.Background(), "key-to-delete"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRealClient_EnsureFirewall_WithHTTPMock(t *testing.T) {
	rules := []hcloud.FirewallRule{
		{
			Direction: hcloud.FirewallRuleDirectionIn,
			Protocol:  hcloud.FirewallRuleProtocolTCP,
			Port:      hcloud.Ptr("22"),
		},
	}
	selector := "onebox.dev/stack=mybox"

	t.Run("creates with label selector", func(t *testing.T) {
		ts := newTestServer()
		defer ts.close()

		var createBody schema.FirewallCreateRequest
		ts.handleFunc("/firewalls", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				_ = json.NewDecoder(r.Body).Decode(&createBody)
				jsonResponse(w, http.StatusCreated, schema.FirewallCreateResponse{
					Firewall: schema.Firewall{
						ID:   200,
						Name: "mybox",
						AppliedTo: []schema.FirewallResource{
							{
								Type:          "label_selector",
								LabelSelector: &schema.FirewallResourceLabelSelector{Selector: selector},
							},
						},
					},
					Actions: []schema.Action{successAction(1)},
				})
				return
			}
			jsonResponse(w, http.StatusOK, schema.FirewallListResponse{Firewalls: []schema.Firewall{}})
		})

		client := ts.realClient()
		fw, err := client.EnsureFirewall(context.Background(), "mybox", rules, nil, selector)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fw.ID != 200 {
			t.Errorf("expected ID 200, got %d", fw.ID)
		}
		if len(createBody.ApplyTo) != 1 || createBody.ApplyTo[0].LabelSelector == nil {
			t.Fatalf("expected apply_to label selector in create request, got %+v", createBody.ApplyTo)
		}
		if createBody.ApplyTo[0].LabelSelector.Selector != selector {
			t.Errorf("expected selector %q, got %q", selector, createBody.ApplyTo[0].LabelSelector.Selector)
		}
	})

	t.Run("updates rules on existing firewall", func(t *testing.T) {
		ts := newTestServer()
		defer ts.close()

		ts.handleFunc("/firewalls", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusOK, schema.FirewallListResponse{
				Firewalls: []schema.Firewall{
					{
						ID:   201,
						Name: "mybox",
						AppliedTo: []schema.FirewallResource{
							{
								Type:          "label_selector",
								LabelSelector: &schema.FirewallResourceLabelSelector{Selector: selector},
							},
						},
					},
				},
			})
		})

		var rulesSet bool
		ts.handleFunc("/firewalls/201/actions/set_rules", func(w http.ResponseWriter, _ *http.Request) {
			rulesSet = true
			jsonResponse(w, http.StatusCreated, schema.FirewallActionSetRulesResponse{
				Actions: []schema.Action{successAction(2)},
			})
		})

		client := ts.realClient()
		fw, err := client.EnsureFirewall(context.Background(), "mybox", rules, nil, selector)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rulesSet {
			t.Error("expected set_rules to be called for existing firewall")
		}
		if fw.ID != 201 {
			t.Errorf("expected ID 201, got %d", fw.ID)
		}
	})

	t.Run("reapplies missing label selector", func(t *testing.T) {
		ts := newTestServer()
		defer ts.close()

		ts.handleFunc("/firewalls", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusOK, schema.FirewallListResponse{
				Firewalls: []schema.Firewall{
					{ID: 202, Name: "mybox"},
				},
			})
		})

		ts.handleFunc("/firewalls/202/actions/set_rules", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusCreated, schema.FirewallActionSetRulesResponse{
				Actions: []schema.Action{successAction(3)},
			})
		})

		var applied bool
		ts.handleFunc("/firewalls/202/actions/apply_to_resources", func(w http.ResponseWriter, _ *http.Request) {
			applied = true
			jsonResponse(w, http.StatusCreated, schema.FirewallActionApplyToResourcesResponse{
				Actions: []schema.Action{successAction(4)},
			})
		})

		client := ts.realClient()
		if _, err := client.EnsureFirewall(context.Background(), "mybox", rules, nil, selector); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !applied {
			t.Error("expected apply_to_resources to be called for detached firewall")
		}
	})
}

func TestRealClient_DeleteFirewall_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/firewalls", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "firewall-to-delete" {
			jsonResponse(w, http.StatusOK, schema.FirewallListResponse{
				Firewalls: []schema.Firewall{
					{ID: 250, Name: "firewall-to-delete"},
				},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.FirewallListResponse{Firewalls: []schema.Firewall{}})
	})

	ts.handleFunc("/firewalls/250", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	client := ts.realClient()

	if err := client.DeleteFirewall(context.Background(), "firewall-to-delete"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRealClient_EnsureVolume_WithHTTPMock(t *testing.T) {
	t.Run("creates when absent", func(t *testing.T) {
		ts := newTestServer()
		defer ts.close()

		var createBody schema.VolumeCreateRequest
		ts.handleFunc("/volumes", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				_ = json.NewDecoder(r.Body).Decode(&createBody)
				action := successAction(1)
				jsonResponse(w, http.StatusCreated, schema.VolumeCreateResponse{
					Volume: schema.Volume{
						ID:   300,
						Name: "mybox-data",
						Size: 50,
					},
					Action:      &action,
					NextActions: []schema.Action{successAction(2)},
				})
				return
			}
			jsonResponse(w, http.StatusOK, schema.VolumeListResponse{Volumes: []schema.Volume{}})
		})

		client := ts.realClient()
		volume, err := client.EnsureVolume(context.Background(), VolumeCreateOpts{
			Name:     "mybox-data",
			SizeGB:   50,
			Location: "nbg1",
			Format:   "ext4",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if volume.ID != 300 {
			t.Errorf("expected ID 300, got %d", volume.ID)
		}
		if createBody.Format == nil || *createBody.Format != "ext4" {
			t.Errorf("expected format ext4 in create request, got %v", createBody.Format)
		}
		if createBody.Size != 50 {
			t.Errorf("expected size 50 in create request, got %d", createBody.Size)
		}
	})

	t.Run("returns existing without create", func(t *testing.T) {
		ts := newTestServer()
		defer ts.close()

		var created bool
		ts.handleFunc("/volumes", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				created = true
				http.Error(w, "should not create", http.StatusBadRequest)
				return
			}
			jsonResponse(w, http.StatusOK, schema.VolumeListResponse{
				Volumes: []schema.Volume{
					{ID: 301, Name: "mybox-data", Size: 50},
				},
			})
		})

		client := ts.realClient()
		volume, err := client.EnsureVolume(context.Background(), VolumeCreateOpts{
			Name:   "mybox-data",
			SizeGB: 50,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created {
			t.Error("did not expect POST /volumes for existing volume")
		}
		if volume.ID != 301 {
			t.Errorf("expected ID 301, got %d", volume.ID)
		}
	})
}

func TestRealClient_ResizeVolume_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/volumes", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.VolumeListResponse{
			Volumes: []schema.Volume{
				{ID: 310, Name: "mybox-data", Size: 50},
			},
		})
	})

	var resized bool
	ts.handleFunc("/volumes/310/actions/resize", func(w http.ResponseWriter, _ *http.Request) {
		resized = true
		jsonResponse(w, http.StatusCreated, schema.VolumeActionResizeVolumeResponse{
			Action: successAction(1),
		})
	})

	client := ts.realClient()
	if err := client.ResizeVolume(context.Background(), "mybox-data", 80); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resized {
		t.Error("expected resize action to be called")
	}
}

func TestRealClient_AttachVolume_WithHTTPMock(t *testing.T) {
	t.Run("attaches detached volume", func(t *testing.T) {
		ts := newTestServer()
		defer ts.close()

		ts.handleFunc("/volumes", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusOK, schema.VolumeListResponse{
				Volumes: []schema.Volume{
					{ID: 320, Name: "mybox-data", Size: 50},
				},
			})
		})

		ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{
				Servers: []schema.Server{
					{ID: 42, Name: "mybox-a1b2c3"},
				},
			})
		})

		var attached bool
		ts.handleFunc("/volumes/320/actions/attach", func(w http.ResponseWriter, _ *http.Request) {
			attached = true
			jsonResponse(w, http.StatusCreated, schema.VolumeActionAttachVolumeResponse{
				Action: successAction(1),
			})
		})

		client := ts.realClient()
		if err := client.AttachVolume(context.Background(), "mybox-data", "mybox-a1b2c3"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !attached {
			t.Error("expected attach action to be called")
		}
	})

	t.Run("attach to current server is a no-op", func(t *testing.T) {
		ts := newTestServer()
		defer ts.close()

		serverID := int64(42)
		ts.handleFunc("/volumes", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusOK, schema.VolumeListResponse{
				Volumes: []schema.Volume{
					{ID: 321, Name: "mybox-data", Size: 50, Server: &serverID},
				},
			})
		})

		ts.handleFunc("/servers", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{
				Servers: []schema.Server{
					{ID: 42, Name: "mybox-a1b2c3"},
				},
			})
		})

		ts.handleFunc("/volumes/321/actions/attach", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "should not attach", http.StatusBadRequest)
		})

		client := ts.realClient()
		if err := client.AttachVolume(context.Background(), "mybox-data", "mybox-a1b2c3"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestRealClient_DetachVolume_WithHTTPMock(t *testing.T) {
	t.Run("detaches attached volume", func(t *testing.T) {
		ts := newTestServer()
		defer ts.close()

		serverID := int64(42)
		ts.handleFunc("/volumes", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusOK, schema.VolumeListResponse{
				Volumes: []schema.Volume{
					{ID: 330, Name: "mybox-data", Size: 50, Server: &serverID},
				},
			})
		})

		var detached bool
		ts.handleFunc("/volumes/330/actions/detach", func(w http.ResponseWriter, _ *http.Request) {
			detached = true
			jsonResponse(w, http.StatusCreated, schema.VolumeActionDetachVolumeResponse{
				Action: successAction(1),
			})
		})

		client := ts.realClient()
		if err := client.DetachVolume(context.Background(), "mybox-data"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !detached {
			t.Error("expected detach action to be called")
		}
	})

	t.Run("detach of unattached volume is a no-op", func(t *testing.T) {
		ts := newTestServer()
		defer ts.close()

		ts.handleFunc("/volumes", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusOK, schema.VolumeListResponse{
				Volumes: []schema.Volume{
					{ID: 331, Name: "mybox-data", Size: 50},
				},
			})
		})

		client := ts.realClient()
		if err := client.DetachVolume(context.Background(), "mybox-data"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestRealClient_DeleteVolume_WithHTTPMock(t *testing.T) {
	ts := newTestServer()
	defer ts.close()

	ts.handleFunc("/volumes", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "volume-to-delete" {
			jsonResponse(w, http.StatusOK, schema.VolumeListResponse{
				Volumes: []schema.Volume{
					{ID: 340, Name: "volume-to-delete"},
				},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.VolumeListResponse{Volumes: []schema.Volume{}})
	})

	ts.handleFunc("/volumes/340", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	client := ts.realClient()

	if err := client.DeleteVolume(context.Background(), "volume-to-delete"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := client.DeleteVolume(context.Background(), "already-gone"); err != nil {
		t.Fatalf("unexpected error for absent volume: %v", err)
	}
}
