package wizard

import (
	"fmt"
	"os"
	"path/filepath"
)

// starterPlaybook installs Docker, renders the compose file and starts
// the services. Users grow it into roles from here.
const starterPlaybook = `---
- name: Configure server
  hosts: all
  become: true

  vars:
    app_dir: /opt/app

  tasks:
    - name: Install Docker
      ansible.builtin.apt:
        name:
          - docker.io
          - docker-compose-v2
        state: present
        update_cache: true

    - name: Create application directory
      ansible.builtin.file:
        path: "{{ app_dir }}"
        state: directory
        mode: "0755"

    - name: Render compose file
      ansible.builtin.template:
        src: templates/docker-compose.yml.j2
        dest: "{{ app_dir }}/docker-compose.yml"
        mode: "0644"

    - name: Start services
      ansible.builtin.command:
        cmd: docker compose up -d --remove-orphans
        chdir: "{{ app_dir }}"
      register: compose_up
      changed_when: "'Started' in compose_up.stderr or 'Created' in compose_up.stderr"
`

const starterCompose = `services:
  web:
    image: nginx:stable
    ports:
      - "80:80"
    restart: unless-stopped
`

// Scaffold writes the starter playbook skeleton under dir (usually
// "deploy"). Existing files are left untouched so re-running init never
// clobbers a grown playbook.
func Scaffold(dir string) error {
	if err := writeIfAbsent(filepath.Join(dir, "site.yml"), starterPlaybook); err != nil {
		return err
	}
	return writeIfAbsent(filepath.Join(dir, "templates", "docker-compose.yml.j2"), starterCompose)
}

func writeIfAbsent(path, content string) error {
	if FileExists(path) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
